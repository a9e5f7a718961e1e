// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pitwall/internal/adapters/repository"
	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/internal/domain/optimizer"
	"github.com/okian/pitwall/internal/domain/projection"
	"github.com/okian/pitwall/internal/domain/transfers"
	"github.com/okian/pitwall/internal/domain/types"
	"github.com/okian/pitwall/internal/domain/weighting"
	"github.com/okian/pitwall/pkg/logger"
	"github.com/okian/pitwall/pkg/metrics"
)

// Default request values.
const (
	defaultBudget      = 100.0
	defaultFreeChanges = 2
	defaultTotalRaces  = 24
	defaultDataDir     = "data"
)

// DefaultRoster is the roster assumed when a request sends none.
func DefaultRoster() model.Roster {
	return model.Roster{
		DriverIDs:      []string{"VER", "NOR", "PIA", "RUS", "GAS"},
		ConstructorIDs: []string{"MCL", "MER"},
	}
}

// SuggestRequest asks for the best roster given the current one. Nil fields
// fall back to the service defaults.
type SuggestRequest struct {
	Current        model.Roster `json:"current"`
	Budget         *float64     `json:"budget,omitempty"`
	FreeChanges    *int         `json:"free_changes,omitempty"`
	RacesCompleted *int         `json:"races_completed,omitempty"`
}

// Suggestion is the answer to a SuggestRequest. Best and Transfers are nil
// when no roster fits the budget.
type Suggestion struct {
	ID          string                  `json:"id"`
	Feasible    bool                    `json:"feasible"`
	Current     model.Roster            `json:"current"`
	Best        *optimizer.ScoredRoster `json:"best,omitempty"`
	Transfers   *transfers.Transfers    `json:"transfers,omitempty"`
	Weights     types.Weights           `json:"weights"`
	Budget      float64                 `json:"budget"`
	FreeChanges int                     `json:"free_changes"`
	Evaluated   int64                   `json:"evaluated"`
	Pruned      int64                   `json:"pruned"`
	GeneratedAt time.Time               `json:"generated_at"`

	// Unavailable lists picks of Current that are unknown or inactive in the
	// catalog. They can never be kept, so each one costs a change.
	Unavailable []string `json:"unavailable,omitempty"`
}

// catalog is one loaded snapshot plus its projected candidate pools. It is
// never modified after load.
type catalog struct {
	snap         repository.Snapshot
	drivers      []projection.Candidate
	constructors []projection.Candidate
	loadedAt     time.Time
}

// unavailable returns the IDs of r that are missing from the catalog or
// inactive, drivers first.
func (c *catalog) unavailable(r model.Roster) []string {
	var out []string
	check := func(cat model.Category, ids []string) {
		for _, id := range ids {
			e, err := c.snap.Lookup(cat, id)
			if errors.Is(err, repository.ErrNotFound) || !e.Active {
				out = append(out, id)
			}
		}
	}
	check(model.CategoryDriver, r.DriverIDs)
	check(model.CategoryConstructor, r.ConstructorIDs)
	return out
}

// Service implements the API dependencies for the roster optimizer.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	engine *optimizer.Engine

	// Configuration
	season        model.SeasonProgress
	weights       weighting.Params
	budget        float64
	freeChanges   int
	defaultRoster model.Roster

	// State
	started bool
	cat     *catalog

	suggestions atomic.Int64
	feasible    atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:         repository.NewFileStore(defaultDataDir),
		engine:        optimizer.NewEngine(),
		season:        model.SeasonProgress{TotalRaces: defaultTotalRaces},
		weights:       weighting.DefaultParams(),
		budget:        defaultBudget,
		freeChanges:   defaultFreeChanges,
		defaultRoster: DefaultRoster(),
		logger:        logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalog. Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.weights.Validate(); err != nil {
		return err
	}
	driverSlots, constructorSlots := s.engine.RosterSize()
	if err := s.defaultRoster.Validate(driverSlots, constructorSlots); err != nil {
		return fmt.Errorf("default roster: %w", err)
	}

	s.logger.Info(ctx, "starting optimizer service...")

	cat, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.cat = cat
	s.started = true

	s.logger.Info(ctx, "optimizer service started",
		logger.Int("drivers", len(cat.drivers)),
		logger.Int("constructors", len(cat.constructors)),
		logger.Int("driverSlots", driverSlots),
		logger.Int("constructorSlots", constructorSlots),
		logger.Float64("penaltyRate", s.engine.PenaltyRate()),
	)
	return nil
}

// Stop releases the loaded catalog.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cat = nil
	s.started = false
	s.logger.Info(context.Background(), "optimizer service stopped")
}

// Reload replaces the catalog with a fresh load from the store. On failure the
// previous catalog stays in place.
func (s *Service) Reload(ctx context.Context) error {
	if _, err := s.current(); err != nil {
		return err
	}
	cat, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	s.cat = cat
	s.logger.Info(ctx, "catalog reloaded",
		logger.Int("drivers", len(cat.drivers)),
		logger.Int("constructors", len(cat.constructors)),
	)
	return nil
}

func (s *Service) load(ctx context.Context) (*catalog, error) {
	start := time.Now()
	snap, err := s.store.Load(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordCatalogLoad(false, elapsed)
		s.logger.Error(ctx, "catalog load failed", logger.Error(err))
		return nil, err
	}
	metrics.RecordCatalogLoad(true, elapsed)

	cat := &catalog{
		snap:         snap,
		drivers:      projection.Project(snap.Drivers, snap.Forecasts.Drivers),
		constructors: projection.Project(snap.Constructors, snap.Forecasts.Constructors),
		loadedAt:     time.Now(),
	}
	metrics.UpdateCandidatePool(string(model.CategoryDriver), len(cat.drivers))
	metrics.UpdateCandidatePool(string(model.CategoryConstructor), len(cat.constructors))
	return cat, nil
}

func (s *Service) current() (*catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.cat == nil {
		return nil, ErrNotStarted
	}
	return s.cat, nil
}

// Catalog returns every driver and constructor joined with its forecast.
func (s *Service) Catalog(_ context.Context) (types.Catalog, error) {
	cat, err := s.current()
	if err != nil {
		return types.Catalog{}, err
	}
	return types.NewCatalog(cat.snap.Drivers, cat.snap.Constructors, cat.snap.Forecasts), nil
}

// Weights evaluates the weighting curve. A nil racesCompleted uses the
// configured season progress.
func (s *Service) Weights(_ context.Context, racesCompleted *int) (types.Weights, error) {
	progress, err := s.progress(racesCompleted)
	if err != nil {
		return types.Weights{}, err
	}
	return s.weightsAt(progress), nil
}

func (s *Service) progress(racesCompleted *int) (model.SeasonProgress, error) {
	p := s.season
	if racesCompleted == nil {
		return p, nil
	}
	if *racesCompleted < 0 || *racesCompleted > p.TotalRaces {
		return p, fmt.Errorf("%w: races completed %d not in [0, %d]", ErrInvalidRequest, *racesCompleted, p.TotalRaces)
	}
	p.RacesCompleted = *racesCompleted
	return p, nil
}

func (s *Service) weightsAt(p model.SeasonProgress) types.Weights {
	pair := weighting.Curve(p, s.weights)
	return types.Weights{
		RacesCompleted: p.RacesCompleted,
		TotalRaces:     p.TotalRaces,
		Progress:       p.Fraction(),
		Points:         pair.Points,
		Delta:          pair.Delta,
	}
}

// Suggest searches for the best roster to move to from req.Current.
// An empty current roster is replaced by the default roster; any other
// roster must have exactly the configured slot counts with unique IDs.
// IDs that are inactive or unknown are allowed and count as changes.
func (s *Service) Suggest(ctx context.Context, req SuggestRequest) (Suggestion, error) {
	cat, err := s.current()
	if err != nil {
		return Suggestion{}, err
	}

	current := req.Current
	if len(current.IDs()) == 0 {
		current = s.defaultRoster
	}
	driverSlots, constructorSlots := s.engine.RosterSize()
	if err := current.Validate(driverSlots, constructorSlots); err != nil {
		return Suggestion{}, err
	}

	budget := s.budget
	if req.Budget != nil {
		budget = *req.Budget
	}
	if math.IsNaN(budget) || math.IsInf(budget, 0) {
		return Suggestion{}, fmt.Errorf("%w: budget must be a finite number", ErrInvalidRequest)
	}
	freeChanges := s.freeChanges
	if req.FreeChanges != nil {
		freeChanges = *req.FreeChanges
	}
	if freeChanges < 0 {
		return Suggestion{}, fmt.Errorf("%w: free changes must not be negative, got %d", ErrInvalidRequest, freeChanges)
	}
	progress, err := s.progress(req.RacesCompleted)
	if err != nil {
		return Suggestion{}, err
	}
	weights := s.weightsAt(progress)

	start := time.Now()
	res, err := s.engine.Search(ctx, optimizer.Request{
		Budget:       budget,
		Prior:        current.IDs(),
		Drivers:      cat.drivers,
		Constructors: cat.constructors,
		FreeChanges:  freeChanges,
		Weights:      weighting.Pair{Points: weights.Points, Delta: weights.Delta},
	})
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeCancelled
		}
		metrics.RecordSearch(outcome, elapsed, 0, 0)
		s.logger.Warn(ctx, "roster search failed", logger.Error(err))
		return Suggestion{}, err
	}

	out := Suggestion{
		ID:          uuid.NewString(),
		Feasible:    res.Found(),
		Current:     current,
		Best:        res.Best,
		Weights:     weights,
		Budget:      budget,
		FreeChanges: freeChanges,
		Evaluated:   res.Evaluated,
		Pruned:      res.Pruned,
		GeneratedAt: time.Now().UTC(),
		Unavailable: cat.unavailable(current),
	}
	s.suggestions.Add(1)
	if len(out.Unavailable) > 0 {
		s.logger.Debug(ctx, "current roster holds unavailable picks",
			logger.String("id", out.ID),
			logger.Strings("unavailable", out.Unavailable),
		)
	}

	if !res.Found() {
		metrics.RecordSearch(metrics.OutcomeInfeasible, elapsed, res.Evaluated, res.Pruned)
		s.logger.Info(ctx, "no roster fits the budget",
			logger.String("id", out.ID),
			logger.Float64("budget", budget),
			logger.Int64("pruned", res.Pruned),
		)
		return out, nil
	}

	s.feasible.Add(1)
	diff := transfers.Diff(current, model.Roster{DriverIDs: res.Best.DriverIDs, ConstructorIDs: res.Best.ConstructorIDs})
	out.Transfers = &diff
	metrics.RecordSearch(metrics.OutcomeFeasible, elapsed, res.Evaluated, res.Pruned)
	metrics.UpdateLastScore(res.Best.Score)
	s.logger.Info(ctx, "roster suggested",
		logger.String("id", out.ID),
		logger.Float64("score", res.Best.Score),
		logger.Float64("cost", res.Best.Cost),
		logger.Int("changes", res.Best.ChangesNeeded),
		logger.Strings("roster", res.Best.IDs()),
	)
	return out, nil
}

// Transfers lists what has to leave and join to get from one roster to another.
// Both rosters must have the configured shape.
func (s *Service) Transfers(_ context.Context, from, to model.Roster) (transfers.Transfers, error) {
	driverSlots, constructorSlots := s.engine.RosterSize()
	if err := from.Validate(driverSlots, constructorSlots); err != nil {
		return transfers.Transfers{}, fmt.Errorf("from: %w", err)
	}
	if err := to.Validate(driverSlots, constructorSlots); err != nil {
		return transfers.Transfers{}, fmt.Errorf("to: %w", err)
	}
	return transfers.Diff(from, to), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	driverSlots, constructorSlots := s.engine.RosterSize()
	stats := map[string]interface{}{
		"started":          s.started,
		"driverSlots":      driverSlots,
		"constructorSlots": constructorSlots,
		"penaltyRate":      s.engine.PenaltyRate(),
		"racesCompleted":   s.season.RacesCompleted,
		"totalRaces":       s.season.TotalRaces,
		"suggestions":      s.suggestions.Load(),
		"feasible":         s.feasible.Load(),
	}

	if s.started && s.cat != nil {
		stats["drivers"] = len(s.cat.snap.Drivers)
		stats["constructors"] = len(s.cat.snap.Constructors)
		stats["activeDrivers"] = len(s.cat.drivers)
		stats["activeConstructors"] = len(s.cat.constructors)
		stats["catalogLoadedAt"] = s.cat.loadedAt.UTC().Format(time.RFC3339)
	}

	return stats
}
