package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const BaseURL = "https://www.strava.com/api/v3"

// Client is a Strava API client. Token refresh is handled by the
// underlying oauth2 transport.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a Strava API client from a token source.
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		baseURL:     BaseURL,
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// GetActivities fetches one page of the athlete's activities after the
// given time.
func (c *Client) GetActivities(ctx context.Context, after time.Time, page, perPage int) ([]Activity, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	if !after.IsZero() {
		params.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, "/athlete/activities", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}
	return activities, nil
}

// GetAllActivities pages through every activity after the given time,
// respecting rate limits. onProgress, if set, is called after each page
// with the running total.
func (c *Client) GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]Activity, error) {
	const perPage = 100 // Strava's maximum

	var all []Activity
	for page := 1; ; page++ {
		activities, err := c.GetActivities(ctx, after, page, perPage)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}
		if len(activities) == 0 {
			break
		}

		all = append(all, activities...)
		if onProgress != nil {
			onProgress(len(all))
		}

		if len(activities) < perPage {
			break
		}
	}
	return all, nil
}

// RateLimitStatus returns the remaining request budget.
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}
