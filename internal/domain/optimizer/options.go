package optimizer

import (
	"math"

	"github.com/okian/pitwall/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPenaltyRate sets the score deducted per change beyond the free allowance.
func WithPenaltyRate(rate float64) Option {
	return func(e *Engine) {
		if rate >= 0 && !math.IsInf(rate, 1) {
			e.penaltyRate = rate
		}
	}
}

// WithRosterSize sets how many drivers and constructors make up a roster.
// Both counts must be positive; otherwise the defaults are kept.
func WithRosterSize(drivers, constructors int) Option {
	return func(e *Engine) {
		if drivers > 0 && constructors > 0 {
			e.driverSlots = drivers
			e.constructorSlots = constructors
		}
	}
}

// WithParallelism sets how many first-driver partitions are scanned at once.
// 1 scans sequentially on the calling goroutine.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
