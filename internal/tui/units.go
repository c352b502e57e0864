package tui

import (
	"fmt"

	"stridecoach/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
	kmPerMile     = metersPerMile / metersPerKm
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.cfg.DistanceUnit == "mi" {
		return fmt.Sprintf("%.1f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.1f km", meters/metersPerKm)
}

// FormatKm formats a distance already expressed in kilometers
func (u Units) FormatKm(km float64) string {
	return u.FormatDistance(km * metersPerKm)
}

// FormatPace formats pace from total seconds and meters to the user's preferred unit
func (u Units) FormatPace(seconds int, meters float64) string {
	if meters <= 0 || seconds <= 0 {
		return "-"
	}

	var paceSeconds float64
	if u.cfg.PaceUnit == "min/mi" {
		paceSeconds = float64(seconds) / (meters / metersPerMile)
	} else {
		paceSeconds = float64(seconds) / (meters / metersPerKm)
	}

	mins := int(paceSeconds) / 60
	secs := int(paceSeconds) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatPaceMin formats a pace given in minutes per km, converting to
// min/mi when that is the preferred unit
func (u Units) FormatPaceMin(paceMinPerKm float64) string {
	if paceMinPerKm <= 0 {
		return "-"
	}
	pace := paceMinPerKm
	if u.cfg.PaceUnit == "min/mi" {
		pace *= kmPerMile
	}
	mins := int(pace)
	secs := int((pace - float64(mins)) * 60)
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatPaceMinWithUnit formats a min/km pace with its unit label
func (u Units) FormatPaceMinWithUnit(paceMinPerKm float64) string {
	pace := u.FormatPaceMin(paceMinPerKm)
	if pace == "-" {
		return pace
	}
	return pace + " " + u.PaceLabel()
}

// FormatMinutes formats a duration in minutes as h:mm:ss or m:ss
func (u Units) FormatMinutes(minutes float64) string {
	if minutes <= 0 {
		return "-"
	}
	total := int(minutes*60 + 0.5)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.cfg.DistanceUnit == "mi" {
		return "mi"
	}
	return "km"
}

// PaceLabel returns the pace unit label ("min/mi" or "min/km")
func (u Units) PaceLabel() string {
	if u.cfg.PaceUnit == "min/mi" {
		return "min/mi"
	}
	return "min/km"
}

// ConvertPaceSeries converts a min/km pace series for charting when the
// preferred unit is min/mi
func (u Units) ConvertPaceSeries(paceMinPerKm []float64) []float64 {
	if u.cfg.PaceUnit != "min/mi" {
		return paceMinPerKm
	}
	converted := make([]float64, len(paceMinPerKm))
	for i, p := range paceMinPerKm {
		if p > 0 {
			converted[i] = p * kmPerMile
		}
	}
	return converted
}
