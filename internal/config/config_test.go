package config_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/pitwall/internal/config"
	"github.com/okian/pitwall/internal/domain/weighting"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DataDir, convey.ShouldEqual, "data")
			convey.So(cfg.TotalRaces, convey.ShouldEqual, 24)
			convey.So(cfg.RacesCompleted, convey.ShouldEqual, 0)
			convey.So(cfg.PenaltyRate, convey.ShouldEqual, 10)
			convey.So(cfg.DriverSlots, convey.ShouldEqual, 5)
			convey.So(cfg.ConstructorSlots, convey.ShouldEqual, 2)
			convey.So(cfg.FreeChanges, convey.ShouldEqual, 2)
			convey.So(cfg.Budget, convey.ShouldEqual, 100)
			convey.So(cfg.SearchParallelism, convey.ShouldEqual, 1)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then it should adapt to domain types", func() {
			convey.So(cfg.WeightParams(), convey.ShouldResemble, weighting.DefaultParams())
			convey.So(cfg.Season().TotalRaces, convey.ShouldEqual, 24)
			convey.So(cfg.Season().Fraction(), convey.ShouldEqual, 0)
			convey.So(cfg.SuggestTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.ReloadInterval(), convey.ShouldEqual, time.Duration(0))
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad field", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"unknown log level", func(c *config.Config) { c.LogLevel = "loud" }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"empty data dir", func(c *config.Config) { c.DataDir = "" }},
			{"zero total races", func(c *config.Config) { c.TotalRaces = 0 }},
			{"negative races", func(c *config.Config) { c.RacesCompleted = -1 }},
			{"too many races", func(c *config.Config) { c.RacesCompleted = 25 }},
			{"weight above one", func(c *config.Config) { c.MaxPointsWeight = 1.5 }},
			{"zero drop length", func(c *config.Config) { c.DropLength = 0 }},
			{"zero curve shape", func(c *config.Config) { c.CurveShape = 0 }},
			{"negative penalty", func(c *config.Config) { c.PenaltyRate = -1 }},
			{"infinite penalty", func(c *config.Config) { c.PenaltyRate = math.Inf(1) }},
			{"zero driver slots", func(c *config.Config) { c.DriverSlots = 0 }},
			{"negative free changes", func(c *config.Config) { c.FreeChanges = -1 }},
			{"NaN budget", func(c *config.Config) { c.Budget = math.NaN() }},
			{"zero parallelism", func(c *config.Config) { c.SearchParallelism = 0 }},
			{"short default roster", func(c *config.Config) { c.DefaultDrivers = c.DefaultDrivers[:4] }},
			{"duplicate default constructor", func(c *config.Config) { c.DefaultConstructors = []string{"MCL", "MCL"} }},
			{"zero suggest timeout", func(c *config.Config) { c.SuggestTimeoutMS = 0 }},
			{"negative reload interval", func(c *config.Config) { c.ReloadIntervalSeconds = -5 }},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When the weighting curve is invalid", func() {
			cfg := config.New()
			cfg.DropStart = 2
			err := cfg.Validate()

			convey.Convey("Then the weighting sentinel should be wrapped too", func() {
				convey.So(errors.Is(err, weighting.ErrInvalidParams), convey.ShouldBeTrue)
			})
		})
	})
}
