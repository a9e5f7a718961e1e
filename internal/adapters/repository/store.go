// Package repository loads the driver and constructor catalog with its forecasts.
package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/pitwall/internal/domain/model"
)

// Snapshot is one consistent view of the catalog.
type Snapshot struct {
	Drivers      []model.Entity
	Constructors []model.Entity
	Forecasts    model.Forecasts
}

// Store provides read access to the catalog.
type Store interface {
	// Load returns a fresh snapshot. Callers own the returned slices and maps.
	Load(ctx context.Context) (Snapshot, error)
}

// Entities returns the entity list of a category.
func (s Snapshot) Entities(c model.Category) []model.Entity {
	if c == model.CategoryConstructor {
		return s.Constructors
	}
	return s.Drivers
}

// Lookup finds an entity by category and ID.
// Returns ErrNotFound if the ID is unknown.
func (s Snapshot) Lookup(c model.Category, id string) (model.Entity, error) {
	for _, e := range s.Entities(c) {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Entity{}, fmt.Errorf("%s %q: %w", c, id, ErrNotFound)
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Drivers:      append([]model.Entity(nil), s.Drivers...),
		Constructors: append([]model.Entity(nil), s.Constructors...),
		Forecasts: model.Forecasts{
			Drivers:      cloneForecasts(s.Forecasts.Drivers),
			Constructors: cloneForecasts(s.Forecasts.Constructors),
		},
	}
}

func cloneForecasts(m model.ForecastMap) model.ForecastMap {
	out := make(model.ForecastMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// validateEntities rejects empty or duplicate IDs and unusable prices.
func validateEntities(c model.Category, entities []model.Entity) error {
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if e.ID == "" {
			return fmt.Errorf("%s #%d: empty id: %w", c, i, ErrLoad)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%s %q: duplicate id: %w", c, e.ID, ErrLoad)
		}
		seen[e.ID] = struct{}{}
		if math.IsNaN(e.Price) || math.IsInf(e.Price, 0) || e.Price < 0 {
			return fmt.Errorf("%s %q: invalid price %v: %w", c, e.ID, e.Price, ErrLoad)
		}
	}
	return nil
}
