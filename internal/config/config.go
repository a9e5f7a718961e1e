// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() builds a Config with defaults; Load layers a file and env on top.
//   - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/internal/domain/weighting"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds the catalog files.
	DataDir          string `koanf:"data_dir"`
	DriversFile      string `koanf:"drivers_file"`
	ConstructorsFile string `koanf:"constructors_file"`
	ForecastFile     string `koanf:"forecast_file"`

	// TotalRaces and RacesCompleted place the season on the weighting curve.
	TotalRaces     int `koanf:"total_races"`
	RacesCompleted int `koanf:"races_completed"`

	// Weighting curve shape.
	MaxPointsWeight float64 `koanf:"max_points_weight"`
	DropStart       float64 `koanf:"drop_start"`
	DropLength      float64 `koanf:"drop_length"`
	CurveShape      float64 `koanf:"curve_shape"`

	// PenaltyRate is charged per change beyond the free allowance.
	PenaltyRate float64 `koanf:"penalty_rate"`

	// Roster shape.
	DriverSlots      int `koanf:"driver_slots"`
	ConstructorSlots int `koanf:"constructor_slots"`

	// Defaults for requests that leave them out.
	FreeChanges int     `koanf:"free_changes"`
	Budget      float64 `koanf:"budget"`

	// DefaultDrivers and DefaultConstructors form the roster assumed when a
	// request sends none. Their lengths must match the slot counts.
	DefaultDrivers      []string `koanf:"default_drivers"`
	DefaultConstructors []string `koanf:"default_constructors"`

	// SearchParallelism fans the search out over this many goroutines.
	SearchParallelism int `koanf:"search_parallelism"`

	// SuggestTimeoutMS bounds a single /suggest request.
	SuggestTimeoutMS int `koanf:"suggest_timeout_ms"`

	// ReloadIntervalSeconds re-reads the catalog files periodically; 0 disables it.
	ReloadIntervalSeconds int `koanf:"reload_interval_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	w := weighting.DefaultParams()
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DataDir:             "data",
		DriversFile:         "drivers.json",
		ConstructorsFile:    "constructors.json",
		ForecastFile:        "expectedPoints.json",
		TotalRaces:          24,
		RacesCompleted:      0,
		MaxPointsWeight:     w.MaxPointsWeight,
		DropStart:           w.DropStart,
		DropLength:          w.DropLength,
		CurveShape:          w.Shape,
		PenaltyRate:         10,
		DriverSlots:         5,
		ConstructorSlots:    2,
		FreeChanges:         2,
		Budget:              100,
		DefaultDrivers:      []string{"VER", "NOR", "PIA", "RUS", "GAS"},
		DefaultConstructors: []string{"MCL", "MER"},
		SearchParallelism:   1,
		SuggestTimeoutMS:    30000,
	}
}

// WeightParams returns the weighting curve parameters.
func (c *Config) WeightParams() weighting.Params {
	return weighting.Params{
		MaxPointsWeight: c.MaxPointsWeight,
		DropStart:       c.DropStart,
		DropLength:      c.DropLength,
		Shape:           c.CurveShape,
	}
}

// Season returns the configured season progress.
func (c *Config) Season() model.SeasonProgress {
	return model.SeasonProgress{RacesCompleted: c.RacesCompleted, TotalRaces: c.TotalRaces}
}

// DefaultRoster returns the configured fallback roster.
func (c *Config) DefaultRoster() model.Roster {
	return model.Roster{
		DriverIDs:      append([]string(nil), c.DefaultDrivers...),
		ConstructorIDs: append([]string(nil), c.DefaultConstructors...),
	}
}

// SuggestTimeout returns the /suggest deadline.
func (c *Config) SuggestTimeout() time.Duration {
	return time.Duration(c.SuggestTimeoutMS) * time.Millisecond
}

// ReloadInterval returns the catalog refresh period, zero when disabled.
func (c *Config) ReloadInterval() time.Duration {
	return time.Duration(c.ReloadIntervalSeconds) * time.Second
}

// Validate checks every field's domain.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q: %w", c.LogLevel, ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format %q: %w", c.LogFormat, ErrInvalidConfig)
	}
	if c.DataDir == "" || c.DriversFile == "" || c.ConstructorsFile == "" {
		return fmt.Errorf("data_dir, drivers_file and constructors_file must be set: %w", ErrInvalidConfig)
	}
	if c.TotalRaces <= 0 {
		return fmt.Errorf("total_races must be positive, got %d: %w", c.TotalRaces, ErrInvalidConfig)
	}
	if c.RacesCompleted < 0 || c.RacesCompleted > c.TotalRaces {
		return fmt.Errorf("races_completed must be within [0, %d], got %d: %w", c.TotalRaces, c.RacesCompleted, ErrInvalidConfig)
	}
	if err := c.WeightParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !nonNegative(c.PenaltyRate) {
		return fmt.Errorf("penalty_rate must be a non-negative number, got %v: %w", c.PenaltyRate, ErrInvalidConfig)
	}
	if c.DriverSlots <= 0 || c.ConstructorSlots <= 0 {
		return fmt.Errorf("driver_slots and constructor_slots must be positive: %w", ErrInvalidConfig)
	}
	if err := c.DefaultRoster().Validate(c.DriverSlots, c.ConstructorSlots); err != nil {
		return fmt.Errorf("default_drivers/default_constructors: %w: %w", ErrInvalidConfig, err)
	}
	if c.FreeChanges < 0 {
		return fmt.Errorf("free_changes must not be negative, got %d: %w", c.FreeChanges, ErrInvalidConfig)
	}
	if !nonNegative(c.Budget) {
		return fmt.Errorf("budget must be a non-negative number, got %v: %w", c.Budget, ErrInvalidConfig)
	}
	if c.SearchParallelism < 1 {
		return fmt.Errorf("search_parallelism must be at least 1, got %d: %w", c.SearchParallelism, ErrInvalidConfig)
	}
	if c.SuggestTimeoutMS <= 0 {
		return fmt.Errorf("suggest_timeout_ms must be positive, got %d: %w", c.SuggestTimeoutMS, ErrInvalidConfig)
	}
	if c.ReloadIntervalSeconds < 0 {
		return fmt.Errorf("reload_interval_seconds must not be negative, got %d: %w", c.ReloadIntervalSeconds, ErrInvalidConfig)
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
