package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test"}))
	c.baseURL = server.URL
	return c
}

func pageOfActivities(n, offset int) []Activity {
	activities := make([]Activity, n)
	for i := range activities {
		activities[i] = Activity{
			ID:         int64(offset + i + 1),
			Name:       fmt.Sprintf("Run %d", offset+i+1),
			SportType:  "Run",
			StartDate:  time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Distance:   5000,
			MovingTime: 1500,
		}
	}
	return activities
}

func TestGetAllActivitiesPaging(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var page []Activity
		switch r.URL.Query().Get("page") {
		case "1":
			page = pageOfActivities(100, 0) // full page, keep going
		case "2":
			page = pageOfActivities(3, 100) // short page, stop
		}
		json.NewEncoder(w).Encode(page)
	})

	var progressCalls []int
	all, err := c.GetAllActivities(context.Background(), time.Time{}, func(fetched int) {
		progressCalls = append(progressCalls, fetched)
	})
	if err != nil {
		t.Fatalf("fetching: %v", err)
	}

	if len(all) != 103 {
		t.Errorf("got %d activities, want 103", len(all))
	}
	if len(progressCalls) != 2 || progressCalls[0] != 100 || progressCalls[1] != 103 {
		t.Errorf("progress calls = %v, want [100 103]", progressCalls)
	}
}

func TestGetActivitiesPassesAfter(t *testing.T) {
	after := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)

	var gotAfter string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAfter = r.URL.Query().Get("after")
		json.NewEncoder(w).Encode([]Activity{})
	})

	if _, err := c.GetActivities(context.Background(), after, 1, 100); err != nil {
		t.Fatalf("fetching: %v", err)
	}
	if want := fmt.Sprint(after.Unix()); gotAfter != want {
		t.Errorf("after param = %q, want %q", gotAfter, want)
	}
}

func TestGetActivitiesAPIError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Rate Limit Exceeded", http.StatusTooManyRequests)
	})

	if _, err := c.GetActivities(context.Background(), time.Time{}, 1, 100); err == nil {
		t.Error("expected error for non-200 response")
	}
}
