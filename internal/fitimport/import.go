// Package fitimport loads activities from Garmin .fit files into the
// local store, for runs recorded off Strava.
package fitimport

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tormoder/fit"

	"stridecoach/internal/store"
)

const invalidUint16 = ^uint16(0)

// Result summarizes one import pass.
type Result struct {
	Files    int
	Imported int
	Skipped  int // sessions already present or without usable data
}

// ImportFile decodes a single .fit file and stores its sessions.
// Sessions already present (same derived ID) are left untouched.
func ImportFile(db *store.DB, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("%s is not an activity file: %w", filepath.Base(path), err)
	}

	result := &Result{Files: 1}
	for _, session := range activity.Sessions {
		a, ok := sessionActivity(session, path)
		if !ok {
			result.Skipped++
			continue
		}
		inserted, err := db.InsertActivityIfNew(a)
		if err != nil {
			return result, fmt.Errorf("storing session from %s: %w", filepath.Base(path), err)
		}
		if inserted {
			result.Imported++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

// ImportDir imports every .fit file in a directory.
func ImportDir(db *store.DB, dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	total := &Result{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".fit") {
			continue
		}
		r, err := ImportFile(db, filepath.Join(dir, entry.Name()))
		if r != nil {
			total.Files += r.Files
			total.Imported += r.Imported
			total.Skipped += r.Skipped
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// sessionActivity converts a decoded session into a store activity.
// The ID is derived from the session start time, which is stable across
// re-imports of the same file.
func sessionActivity(session *fit.SessionMsg, path string) (*store.Activity, bool) {
	start := session.StartTime
	distance := session.GetTotalDistanceScaled()
	duration := session.GetTotalTimerTimeScaled()
	// Scaled getters report invalid fields as NaN
	if start.IsZero() || math.IsNaN(distance) || distance <= 0 || math.IsNaN(duration) || duration <= 0 {
		return nil, false
	}

	elapsed := session.GetTotalElapsedTimeScaled()
	if math.IsNaN(elapsed) || elapsed <= 0 {
		elapsed = duration
	}

	var elevation float64
	if session.TotalAscent != invalidUint16 {
		elevation = float64(session.TotalAscent)
	}

	return &store.Activity{
		ID:                 start.Unix(),
		Name:               activityName(session.Sport, path),
		Type:               activityType(session.Sport),
		StartDate:          start.UTC(),
		Distance:           distance,
		MovingTime:         int(duration),
		ElapsedTime:        int(elapsed),
		TotalElevationGain: elevation,
		Source:             store.SourceFit,
	}, true
}

func activityType(sport fit.Sport) string {
	switch sport {
	case fit.SportRunning:
		return "Run"
	case fit.SportCycling:
		return "Ride"
	case fit.SportWalking, fit.SportHiking:
		return "Walk"
	case fit.SportSwimming:
		return "Swim"
	}
	return fmt.Sprint(sport)
}

func activityName(sport fit.Sport, path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%s (%s)", base, activityType(sport))
}
