package model

import (
	"fmt"
)

// Roster is a set of driver and constructor IDs. Order is kept for display
// but carries no meaning.
type Roster struct {
	DriverIDs      []string `json:"driver_ids"`
	ConstructorIDs []string `json:"constructor_ids"`
}

// IDs returns driver IDs followed by constructor IDs in a new slice.
func (r Roster) IDs() []string {
	ids := make([]string, 0, len(r.DriverIDs)+len(r.ConstructorIDs))
	ids = append(ids, r.DriverIDs...)
	return append(ids, r.ConstructorIDs...)
}

// Validate checks that the roster holds exactly driverSlots unique driver IDs
// and constructorSlots unique constructor IDs. Whether the IDs are active or
// even known is not checked: a prior roster may legitimately hold retired picks.
func (r Roster) Validate(driverSlots, constructorSlots int) error {
	if err := validateSlots(r.DriverIDs, driverSlots, CategoryDriver); err != nil {
		return err
	}
	return validateSlots(r.ConstructorIDs, constructorSlots, CategoryConstructor)
}

func validateSlots(ids []string, want int, c Category) error {
	if len(ids) != want {
		return fmt.Errorf("%w: want %d %s ids, got %d", ErrInvalidRoster, want, c, len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty %s id", ErrInvalidRoster, c)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate %s id %q", ErrInvalidRoster, c, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
