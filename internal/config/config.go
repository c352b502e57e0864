package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the application configuration, stored as JSON at
// ~/.stridecoach/config.json.
type Config struct {
	Strava   StravaConfig   `json:"strava"`
	Training TrainingConfig `json:"training"`
	Display  DisplayConfig  `json:"display"`
}

// StravaConfig holds Strava API credentials.
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TrainingConfig holds defaults for new race goals.
type TrainingConfig struct {
	DefaultRunsPerWeek int    `json:"default_runs_per_week"`
	PacingStrategy     string `json:"pacing_strategy"` // even, negative, positive
}

// DisplayConfig holds display preferences.
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	PaceUnit     string `json:"pace_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist.
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Training: TrainingConfig{
			DefaultRunsPerWeek: 4,
			PacingStrategy:     "negative",
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
	}
}

// Load reads the configuration, applying defaults for missing values.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.Training.DefaultRunsPerWeek == 0 {
		cfg.Training.DefaultRunsPerWeek = defaults.Training.DefaultRunsPerWeek
	}
	if cfg.Training.PacingStrategy == "" {
		cfg.Training.PacingStrategy = defaults.Training.PacingStrategy
	}
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if cfg.Display.PaceUnit == "" {
		cfg.Display.PaceUnit = defaults.Display.PaceUnit
	}

	return &cfg, nil
}

// Save writes the configuration to disk.
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// CreateExample writes a starter config if none exists yet.
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}
	return Save(&example)
}

// Validate checks required fields and enum values.
func (c *Config) Validate() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}

	if n := c.Training.DefaultRunsPerWeek; n != 0 && (n < 2 || n > 7) {
		return fmt.Errorf("training.default_runs_per_week must be between 2 and 7, got %d", n)
	}
	switch c.Training.PacingStrategy {
	case "", "even", "negative", "positive":
	default:
		return fmt.Errorf("training.pacing_strategy must be \"even\", \"negative\" or \"positive\", got %q", c.Training.PacingStrategy)
	}

	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}
	return nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Dir returns the application state directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".stridecoach"), nil
}
