// Package types contains the read shapes served by the API.
package types

import (
	"sort"
	"strings"

	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/pkg/mathutil"
)

// DefaultColor is used when neither the entity nor its team has a color.
const DefaultColor = "#777777"

// Candidate is an entity joined with its forecast, ready for display.
type Candidate struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category model.Category `json:"category"`
	Price    float64        `json:"price"`
	Active   bool           `json:"active"`
	TeamID   string         `json:"team_id,omitempty"`
	Color    string         `json:"color"`
	Points   float64        `json:"points"`
	Delta    float64        `json:"delta"`
}

// Catalog lists every driver and constructor, inactive ones included.
type Catalog struct {
	Drivers      []Candidate `json:"drivers"`
	Constructors []Candidate `json:"constructors"`
}

// NewCatalog joins entities with forecasts. Constructors are sorted by name;
// drivers are grouped by their constructor in that order, then by name.
// Drivers take their constructor's color.
func NewCatalog(drivers, constructors []model.Entity, forecasts model.Forecasts) Catalog {
	cons := make([]Candidate, 0, len(constructors))
	for _, e := range constructors {
		cons = append(cons, newCandidate(model.CategoryConstructor, e, forecasts.Constructors.Get(e.ID), e.Color))
	}
	sort.SliceStable(cons, func(i, j int) bool { return cons[i].Name < cons[j].Name })

	teamOrder := make(map[string]int, len(cons))
	teamColor := make(map[string]string, len(cons))
	for i, c := range cons {
		teamOrder[c.ID] = i
		teamColor[c.ID] = c.Color
	}

	drv := make([]Candidate, 0, len(drivers))
	for _, e := range drivers {
		drv = append(drv, newCandidate(model.CategoryDriver, e, forecasts.Drivers.Get(e.ID), teamColor[e.TeamID]))
	}
	rank := func(c Candidate) int {
		if r, ok := teamOrder[c.TeamID]; ok {
			return r
		}
		return len(cons)
	}
	sort.SliceStable(drv, func(i, j int) bool {
		ri, rj := rank(drv[i]), rank(drv[j])
		if ri != rj {
			return ri < rj
		}
		return drv[i].Name < drv[j].Name
	})

	return Catalog{Drivers: drv, Constructors: cons}
}

func newCandidate(c model.Category, e model.Entity, f model.Forecast, color string) Candidate {
	if color = strings.TrimSpace(color); color == "" {
		color = DefaultColor
	}
	return Candidate{
		ID:       e.ID,
		Name:     e.Name,
		Category: c,
		Price:    e.Price,
		Active:   e.Active,
		TeamID:   e.TeamID,
		Color:    color,
		Points:   mathutil.Finite(f.Points),
		Delta:    mathutil.Finite(f.Delta),
	}
}

// Weights is the weighting curve evaluated at a point in the season.
type Weights struct {
	RacesCompleted int     `json:"races_completed"`
	TotalRaces     int     `json:"total_races"`
	Progress       float64 `json:"progress"`
	Points         float64 `json:"points_weight"`
	Delta          float64 `json:"delta_weight"`
}
