// Package model contains domain models passed between layers.
package model

// Category distinguishes the two disjoint candidate pools.
type Category string

const (
	CategoryDriver      Category = "driver"
	CategoryConstructor Category = "constructor"
)

// Entity is a driver or constructor as published by the data source.
// Name, TeamID and Color are display metadata and pass through untouched.
type Entity struct {
	ID     string  `json:"id" yaml:"id"`                             // unique code, e.g. "NOR" or "MCL"
	Name   string  `json:"name" yaml:"name"`                         // display name
	Price  float64 `json:"price" yaml:"price"`                       // current price, non-negative
	Active bool    `json:"active" yaml:"active"`                     // inactive entities are never suggested
	TeamID string  `json:"teamId,omitempty" yaml:"teamId,omitempty"` // drivers only: the constructor they race for
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`   // display color
}

// Forecast holds the expected points and expected price change for one entity.
type Forecast struct {
	Points float64 `json:"points" yaml:"points"`
	Delta  float64 `json:"delta" yaml:"delta"`
}

// ForecastMap is keyed by entity ID. A missing key means a zero forecast.
type ForecastMap map[string]Forecast

// Get returns the forecast for id, or the zero Forecast when absent.
func (m ForecastMap) Get(id string) Forecast {
	if m == nil {
		return Forecast{}
	}
	return m[id]
}

// Forecasts groups the per-category forecast tables.
type Forecasts struct {
	Drivers      ForecastMap `json:"drivers" yaml:"drivers"`
	Constructors ForecastMap `json:"constructors" yaml:"constructors"`
}

// For returns the table for the given category.
func (f Forecasts) For(c Category) ForecastMap {
	if c == CategoryConstructor {
		return f.Constructors
	}
	return f.Drivers
}

// SeasonProgress is how far through the season the weighting curve should be evaluated.
type SeasonProgress struct {
	RacesCompleted int `json:"races_completed"`
	TotalRaces     int `json:"total_races"`
}

// Fraction returns RacesCompleted/TotalRaces clamped to [0, 1].
// A season with no races is treated as not started.
func (p SeasonProgress) Fraction() float64 {
	if p.TotalRaces <= 0 || p.RacesCompleted <= 0 {
		return 0
	}
	if p.RacesCompleted >= p.TotalRaces {
		return 1
	}
	return float64(p.RacesCompleted) / float64(p.TotalRaces)
}
