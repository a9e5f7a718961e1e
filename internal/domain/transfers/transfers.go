// Package transfers computes which picks leave and which arrive when moving
// from one roster to another.
package transfers

import "github.com/okian/pitwall/internal/domain/model"

// Transfers lists outgoing and incoming IDs per category. Lists keep the order
// of the roster they were taken from, so callers can pair them positionally.
type Transfers struct {
	OutDrivers      []string `json:"out_drivers"`
	InDrivers       []string `json:"in_drivers"`
	OutConstructors []string `json:"out_constructors"`
	InConstructors  []string `json:"in_constructors"`
}

// Count returns the number of outgoing picks across both categories.
func (t Transfers) Count() int {
	return len(t.OutDrivers) + len(t.OutConstructors)
}

// Empty reports whether the rosters are identical as sets.
func (t Transfers) Empty() bool {
	return t.Count() == 0 && len(t.InDrivers) == 0 && len(t.InConstructors) == 0
}

// Diff returns the per-category set differences between prior and chosen.
func Diff(prior, chosen model.Roster) Transfers {
	return Transfers{
		OutDrivers:      missing(prior.DriverIDs, chosen.DriverIDs),
		InDrivers:       missing(chosen.DriverIDs, prior.DriverIDs),
		OutConstructors: missing(prior.ConstructorIDs, chosen.ConstructorIDs),
		InConstructors:  missing(chosen.ConstructorIDs, prior.ConstructorIDs),
	}
}

// missing returns the IDs of from that are not in other, in from's order.
func missing(from, other []string) []string {
	set := make(map[string]struct{}, len(other))
	for _, id := range other {
		set[id] = struct{}{}
	}
	out := []string{}
	for _, id := range from {
		if _, ok := set[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
