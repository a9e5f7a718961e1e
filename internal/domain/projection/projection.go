// Package projection turns raw entity records and forecast tables into the
// flat candidate tuples the roster search works on.
package projection

import (
	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/pkg/mathutil"
)

// Candidate is the scoring view of one active entity.
type Candidate struct {
	ID     string  `json:"id"`
	Price  float64 `json:"price"`
	Points float64 `json:"points"`
	Delta  float64 `json:"delta"`
}

// Project returns one Candidate per active entity, in input order. Entities
// without a forecast keep their place with zero points and delta; non-finite
// forecast values are also read as zero. The inputs are not modified.
func Project(entities []model.Entity, forecasts model.ForecastMap) []Candidate {
	out := make([]Candidate, 0, len(entities))
	for _, e := range entities {
		if !e.Active {
			continue
		}
		f := forecasts.Get(e.ID)
		out = append(out, Candidate{
			ID:     e.ID,
			Price:  e.Price,
			Points: mathutil.Finite(f.Points),
			Delta:  mathutil.Finite(f.Delta),
		})
	}
	return out
}
