// Package weighting computes how much the roster search should favour expected
// points over expected price change at a given point in the season.
//
// Early in the season points matter most; as the season runs out, price gains
// become the only thing left to play for. The transition follows a shaped
// smoothstep so it starts gently, steepens, then flattens out again.
package weighting

import (
	"fmt"
	"math"

	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/pkg/mathutil"
)

// Default curve parameters.
const (
	defaultMaxPointsWeight = 1.0
	defaultDropStart       = 0.45
	defaultDropLength      = 0.60
	defaultShape           = 1.6
)

// Params tunes the curve.
type Params struct {
	// MaxPointsWeight is the points weight before the drop begins, in [0, 1].
	MaxPointsWeight float64 `json:"max_points_weight"`
	// DropStart is the season fraction at which the points weight starts falling, in [0, 1].
	DropStart float64 `json:"drop_start"`
	// DropLength is the season fraction over which the fall happens, in (0, 1].
	DropLength float64 `json:"drop_length"`
	// Shape is the steepness exponent; values above 1 flatten the start of the drop.
	Shape float64 `json:"shape"`
}

// DefaultParams returns the stock curve.
func DefaultParams() Params {
	return Params{
		MaxPointsWeight: defaultMaxPointsWeight,
		DropStart:       defaultDropStart,
		DropLength:      defaultDropLength,
		Shape:           defaultShape,
	}
}

// Validate reports parameters outside their domain.
func (p Params) Validate() error {
	switch {
	case !inUnit(p.MaxPointsWeight):
		return fmt.Errorf("%w: max points weight %v not in [0,1]", ErrInvalidParams, p.MaxPointsWeight)
	case !inUnit(p.DropStart):
		return fmt.Errorf("%w: drop start %v not in [0,1]", ErrInvalidParams, p.DropStart)
	case !(p.DropLength > 0 && p.DropLength <= 1):
		return fmt.Errorf("%w: drop length %v not in (0,1]", ErrInvalidParams, p.DropLength)
	case !(p.Shape > 0) || math.IsInf(p.Shape, 1):
		return fmt.Errorf("%w: shape %v must be positive", ErrInvalidParams, p.Shape)
	}
	return nil
}

func inUnit(v float64) bool { return v >= 0 && v <= 1 }

// Pair is the blend between the two forecast signals. Points + Delta == 1.
type Pair struct {
	Points float64 `json:"points"`
	Delta  float64 `json:"delta"`
}

// Curve evaluates the points/delta blend for the given season progress.
// The points weight never increases as progress increases and always lies in
// [0, p.MaxPointsWeight]. Params are expected to be valid.
func Curve(progress model.SeasonProgress, p Params) Pair {
	points := p.MaxPointsWeight * (1 - smoothstep(drop(progress.Fraction(), p)))
	return Pair{Points: points, Delta: 1 - points}
}

// drop maps season fraction to the shaped position inside the drop window.
func drop(fraction float64, p Params) float64 {
	w := mathutil.Clamp((fraction-p.DropStart)/p.DropLength, 0, 1)
	return math.Pow(w, p.Shape)
}

func smoothstep(x float64) float64 {
	return 3*x*x - 2*x*x*x
}
