package service

import (
	"math"

	"github.com/okian/pitwall/internal/adapters/repository"
	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/internal/domain/optimizer"
	"github.com/okian/pitwall/internal/domain/weighting"
	"github.com/okian/pitwall/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the catalog source.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEngine sets the roster search engine.
func WithEngine(engine *optimizer.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithSeason sets the default season progress used when a request omits it.
func WithSeason(progress model.SeasonProgress) Option {
	return func(s *Service) {
		if progress.TotalRaces > 0 && progress.RacesCompleted >= 0 {
			s.season = progress
		}
	}
}

// WithWeightParams sets the weighting curve. Start rejects invalid params.
func WithWeightParams(p weighting.Params) Option {
	return func(s *Service) {
		s.weights = p
	}
}

// WithDefaultBudget sets the budget used when a request omits it.
func WithDefaultBudget(budget float64) Option {
	return func(s *Service) {
		if budget >= 0 && !math.IsInf(budget, 0) {
			s.budget = budget
		}
	}
}

// WithDefaultFreeChanges sets the free change allowance used when a request omits it.
func WithDefaultFreeChanges(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.freeChanges = n
		}
	}
}

// WithDefaultRoster sets the current roster assumed when a request sends none.
func WithDefaultRoster(r model.Roster) Option {
	return func(s *Service) {
		if len(r.IDs()) > 0 {
			s.defaultRoster = model.Roster{
				DriverIDs:      append([]string(nil), r.DriverIDs...),
				ConstructorIDs: append([]string(nil), r.ConstructorIDs...),
			}
		}
	}
}
