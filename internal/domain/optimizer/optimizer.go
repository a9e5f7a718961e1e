// Package optimizer finds the best roster of drivers and constructors under a
// budget cap by scoring every legal combination.
//
// The search is exhaustive so the returned roster is the global optimum for
// the given inputs. Combinations are visited drivers-outer, constructors-inner,
// each in ascending index order, and ties keep the first roster visited; both
// rules make the result fully deterministic.
package optimizer

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pitwall/internal/domain/projection"
	"github.com/okian/pitwall/internal/domain/weighting"
	"github.com/okian/pitwall/pkg/logger"
	"github.com/okian/pitwall/pkg/mathutil"
)

// Default engine configuration constants.
const (
	defaultPenaltyRate      = 10
	defaultDriverSlots      = 5
	defaultConstructorSlots = 2
	defaultParallelism      = 1

	// costPrecision is the number of decimals roster cost is rounded to
	// before it is compared with the budget. ScoredRoster.Cost is that rounded
	// value, so Cost <= Budget holds for the reported cost; the raw float sum
	// may exceed the budget by less than half a unit in the last place kept.
	costPrecision = 6
)

// Request is a single search invocation. The engine never modifies it.
type Request struct {
	// Budget is the maximum total price of the roster.
	Budget float64
	// Prior holds the IDs of the roster being replaced, drivers and
	// constructors together. IDs no longer in either pool still count.
	Prior []string
	// Drivers and Constructors are the active candidate pools.
	Drivers      []projection.Candidate
	Constructors []projection.Candidate
	// FreeChanges is how many new IDs are allowed before the penalty applies.
	FreeChanges int
	// Weights blends forecast points and forecast price change.
	Weights weighting.Pair
}

// ScoredRoster is the winning roster together with its score breakdown.
type ScoredRoster struct {
	DriverIDs      []string `json:"driver_ids"`
	ConstructorIDs []string `json:"constructor_ids"`
	Captain        string   `json:"captain"`

	Cost float64 `json:"cost"`
	// Points is the forecast points total with the captain doubled.
	Points float64 `json:"points"`
	// Delta is the forecast price change total; nothing is doubled.
	Delta   float64        `json:"delta"`
	Blended float64        `json:"blended"`
	Weights weighting.Pair `json:"weights"`

	ChangesNeeded     int     `json:"changes_needed"`
	AdditionalChanges int     `json:"additional_changes"`
	PenaltyRate       float64 `json:"penalty_rate"`
	// Score is Blended minus the change penalty, rounded to one decimal.
	Score float64 `json:"score"`

	DriverPoints      map[string]float64 `json:"driver_points"`
	ConstructorPoints map[string]float64 `json:"constructor_points"`
	DriverDeltas      map[string]float64 `json:"driver_deltas"`
	ConstructorDeltas map[string]float64 `json:"constructor_deltas"`
}

// IDs returns the roster's driver IDs followed by its constructor IDs.
func (r *ScoredRoster) IDs() []string {
	ids := make([]string, 0, len(r.DriverIDs)+len(r.ConstructorIDs))
	ids = append(ids, r.DriverIDs...)
	return append(ids, r.ConstructorIDs...)
}

// Result is the outcome of a search. Best is nil when no roster is feasible,
// either because a pool is smaller than its slot count or because every
// combination is over budget.
type Result struct {
	Best *ScoredRoster
	// Evaluated counts combinations within budget that were scored.
	Evaluated int64
	// Pruned counts combinations skipped for exceeding the budget.
	Pruned int64
}

// Found reports whether a feasible roster was returned.
func (r Result) Found() bool { return r.Best != nil }

// Engine runs roster searches. It holds configuration only and is safe for
// concurrent use.
type Engine struct {
	penaltyRate      float64
	driverSlots      int
	constructorSlots int
	parallelism      int
	logger           logger.Logger
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		penaltyRate:      defaultPenaltyRate,
		driverSlots:      defaultDriverSlots,
		constructorSlots: defaultConstructorSlots,
		parallelism:      defaultParallelism,
		logger:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PenaltyRate returns the per-change penalty.
func (e *Engine) PenaltyRate() float64 { return e.penaltyRate }

// RosterSize returns the driver and constructor slot counts.
func (e *Engine) RosterSize() (drivers, constructors int) {
	return e.driverSlots, e.constructorSlots
}

// Search returns the highest scoring roster for req. An infeasible request is
// not an error. The context is checked before each first-driver partition.
func (e *Engine) Search(ctx context.Context, req Request) (Result, error) {
	if req.FreeChanges < 0 {
		return Result{}, fmt.Errorf("%w: negative free changes %d", ErrInvalidRequest, req.FreeChanges)
	}
	if math.IsNaN(req.Budget) {
		return Result{}, fmt.Errorf("%w: budget is NaN", ErrInvalidRequest)
	}

	start := time.Now()
	if len(req.Drivers) < e.driverSlots || len(req.Constructors) < e.constructorSlots {
		e.logger.Debug(ctx, "candidate pools too small for a roster",
			logger.Int("drivers", len(req.Drivers)),
			logger.Int("constructors", len(req.Constructors)),
		)
		return Result{}, nil
	}

	s := e.newScan(req)
	partitions := make([]partition, len(req.Drivers)-e.driverSlots+1)

	if e.parallelism <= 1 {
		for first := range partitions {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("search cancelled: %w", err)
			}
			partitions[first] = s.run(first)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.parallelism)
		for first := range partitions {
			first := first
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				partitions[first] = s.run(first)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, fmt.Errorf("search cancelled: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("search cancelled: %w", err)
		}
	}

	// Merge in partition order with the same strictly-greater rule the scan
	// uses, so the winner matches a single sequential pass.
	var res Result
	var best *pick
	for _, p := range partitions {
		res.Evaluated += p.evaluated
		res.Pruned += p.pruned
		if p.best != nil && (best == nil || p.best.score > best.score) {
			best = p.best
		}
	}
	if best != nil {
		res.Best = s.materialize(best)
	}

	fields := []logger.Field{
		logger.Int("drivers", len(req.Drivers)),
		logger.Int("constructors", len(req.Constructors)),
		logger.Int64("evaluated", res.Evaluated),
		logger.Int64("pruned", res.Pruned),
		logger.Duration("elapsed", time.Since(start)),
	}
	if res.Best != nil {
		fields = append(fields, logger.Float64("score", res.Best.Score))
	}
	e.logger.Debug(ctx, "roster search finished", fields...)

	return res, nil
}

// pick is a scored combination held as indices; breakdown maps are only
// built for the final winner.
type pick struct {
	drivers    []int
	combo      int // index into scan.combos
	captain    int // position within drivers
	cost       float64
	points     float64
	delta      float64
	blended    float64
	changes    int
	additional int
	score      float64
}

// partition is the outcome of scanning every roster whose first driver is fixed.
type partition struct {
	best      *pick
	evaluated int64
	pruned    int64
}

// constructorCombo caches the per-combination constructor aggregates that do
// not depend on the driver set.
type constructorCombo struct {
	idx     []int
	cost    float64
	delta   float64
	changes int
}

// scan is the read-only state shared by every partition of one search.
type scan struct {
	req           Request
	slots         int
	penalty       float64
	driverInPrior []bool
	combos        []constructorCombo
	minComboCost  float64
}

func (e *Engine) newScan(req Request) *scan {
	prior := make(map[string]struct{}, len(req.Prior))
	for _, id := range req.Prior {
		prior[id] = struct{}{}
	}
	isNew := func(id string) bool {
		_, ok := prior[id]
		return !ok
	}

	s := &scan{
		req:           req,
		slots:         e.driverSlots,
		penalty:       e.penaltyRate,
		driverInPrior: make([]bool, len(req.Drivers)),
		minComboCost:  math.Inf(1),
	}
	for i, d := range req.Drivers {
		s.driverInPrior[i] = !isNew(d.ID)
	}

	n, k := len(req.Constructors), e.constructorSlots
	idx := firstCombination(0, k)
	for {
		cc := constructorCombo{idx: append([]int(nil), idx...)}
		for _, j := range idx {
			c := req.Constructors[j]
			cc.cost += c.Price
			cc.delta += c.Delta
			if isNew(c.ID) {
				cc.changes++
			}
		}
		s.combos = append(s.combos, cc)
		s.minComboCost = math.Min(s.minComboCost, cc.cost)
		if !nextCombination(idx, n, 0) {
			break
		}
	}
	return s
}

// run scans every roster whose first driver is req.Drivers[first], in
// enumeration order, keeping the first roster with the highest score.
func (s *scan) run(first int) partition {
	var out partition
	drivers := s.req.Drivers
	constructors := s.req.Constructors
	budget := s.req.Budget
	w := s.req.Weights
	combos := int64(len(s.combos))

	idx := firstCombination(first, s.slots)
	for {
		var driverCost float64
		for _, i := range idx {
			driverCost += drivers[i].Price
		}

		// Nothing in this driver set can fit when even the cheapest
		// constructor pairing is over budget.
		if mathutil.Round(driverCost+s.minComboCost, costPrecision) > budget {
			out.pruned += combos
			if !nextCombination(idx, len(drivers), 1) {
				return out
			}
			continue
		}

		captain := 0
		maxPoints := math.Inf(-1)
		var driverDelta float64
		driverChanges := 0
		for pos, i := range idx {
			d := drivers[i]
			if d.Points > maxPoints {
				maxPoints = d.Points
				captain = pos
			}
			driverDelta += d.Delta
			if !s.driverInPrior[i] {
				driverChanges++
			}
		}
		var driverPoints float64
		for pos, i := range idx {
			if pos == captain {
				driverPoints += 2 * drivers[i].Points
			} else {
				driverPoints += drivers[i].Points
			}
		}

		for ci := range s.combos {
			cc := &s.combos[ci]
			cost := mathutil.Round(driverCost+cc.cost, costPrecision)
			if cost > budget {
				out.pruned++
				continue
			}
			out.evaluated++

			points := driverPoints
			for _, j := range cc.idx {
				points += constructors[j].Points
			}
			delta := driverDelta + cc.delta
			blended := mathutil.Round1(w.Points*points + w.Delta*delta)
			changes := driverChanges + cc.changes
			additional := max(0, changes-s.req.FreeChanges)
			score := mathutil.Round1(blended - float64(additional)*s.penalty)

			if out.best == nil || score > out.best.score {
				out.best = &pick{
					drivers:    append([]int(nil), idx...),
					combo:      ci,
					captain:    captain,
					cost:       cost,
					points:     points,
					delta:      delta,
					blended:    blended,
					changes:    changes,
					additional: additional,
					score:      score,
				}
			}
		}

		if !nextCombination(idx, len(drivers), 1) {
			return out
		}
	}
}

func (s *scan) materialize(p *pick) *ScoredRoster {
	cc := s.combos[p.combo]
	r := &ScoredRoster{
		DriverIDs:         make([]string, len(p.drivers)),
		ConstructorIDs:    make([]string, len(cc.idx)),
		Cost:              p.cost,
		Points:            p.points,
		Delta:             p.delta,
		Blended:           p.blended,
		Weights:           s.req.Weights,
		ChangesNeeded:     p.changes,
		AdditionalChanges: p.additional,
		PenaltyRate:       s.penalty,
		Score:             p.score,
		DriverPoints:      make(map[string]float64, len(p.drivers)),
		ConstructorPoints: make(map[string]float64, len(cc.idx)),
		DriverDeltas:      make(map[string]float64, len(p.drivers)),
		ConstructorDeltas: make(map[string]float64, len(cc.idx)),
	}
	for pos, i := range p.drivers {
		d := s.req.Drivers[i]
		r.DriverIDs[pos] = d.ID
		points := d.Points
		if pos == p.captain {
			points *= 2
			r.Captain = d.ID
		}
		r.DriverPoints[d.ID] = points
		r.DriverDeltas[d.ID] = d.Delta
	}
	for pos, j := range cc.idx {
		c := s.req.Constructors[j]
		r.ConstructorIDs[pos] = c.ID
		r.ConstructorPoints[c.ID] = c.Points
		r.ConstructorDeltas[c.ID] = c.Delta
	}
	return r
}
