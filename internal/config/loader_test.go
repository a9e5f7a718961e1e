package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/pitwall/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TotalRaces, convey.ShouldEqual, 24)
				convey.So(cfg.DropStart, convey.ShouldEqual, 0.45)
				convey.So(cfg.DriversFile, convey.ShouldEqual, "drivers.json")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PITWALL_ADDR", ":8080")
			_ = os.Setenv("PITWALL_RACES_COMPLETED", "12")
			_ = os.Setenv("PITWALL_PENALTY_RATE", "7.5")
			_ = os.Setenv("PITWALL_SEARCH_PARALLELISM", "4")
			_ = os.Setenv("PITWALL_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RacesCompleted, convey.ShouldEqual, 12)
				convey.So(cfg.PenaltyRate, convey.ShouldEqual, 7.5)
				convey.So(cfg.SearchParallelism, convey.ShouldEqual, 4)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
data_dir: /srv/pitwall
total_races: 23
races_completed: 10
curve_shape: 2.0
budget: 102.5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PITWALL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/pitwall")
				convey.So(cfg.TotalRaces, convey.ShouldEqual, 23)
				convey.So(cfg.RacesCompleted, convey.ShouldEqual, 10)
				convey.So(cfg.CurveShape, convey.ShouldEqual, 2.0)
				convey.So(cfg.Budget, convey.ShouldEqual, 102.5)
				convey.So(cfg.FreeChanges, convey.ShouldEqual, 2) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
free_changes: 3
budget: 105
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PITWALL_CONFIG", tmpFile)
			_ = os.Setenv("PITWALL_ADDR", ":8080")
			_ = os.Setenv("PITWALL_FREE_CHANGES", "1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")  // Overridden by env
				convey.So(cfg.FreeChanges, convey.ShouldEqual, 1) // Overridden by env
				convey.So(cfg.Budget, convey.ShouldEqual, 105)    // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PITWALL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PITWALL_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PITWALL_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When races completed exceeds the season length", func() {
			_ = os.Setenv("PITWALL_TOTAL_RACES", "10")
			_ = os.Setenv("PITWALL_RACES_COMPLETED", "11")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PITWALL_TOTAL_RACES", "invalid")
			_ = os.Setenv("PITWALL_BUDGET", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func TestConfigLoader_DefaultRoster(t *testing.T) {
	convey.Convey("Given a four-driver roster size", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When the default roster is left at five drivers", func() {
			_ = os.Setenv("PITWALL_DRIVER_SLOTS", "4")

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation should reject the mismatch", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "default_drivers")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the file lists four default drivers", func() {
			tmpFile := createTempConfigFile(`
driver_slots: 4
default_drivers: [HAM, LEC, NOR, PIA]
default_constructors: [FER, MCL]
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("PITWALL_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then the list should replace the default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DefaultRoster().DriverIDs, convey.ShouldResemble, []string{"HAM", "LEC", "NOR", "PIA"})
				convey.So(cfg.DefaultRoster().ConstructorIDs, convey.ShouldResemble, []string{"FER", "MCL"})
			})
		})

		convey.Convey("When the env lists four comma-separated default drivers", func() {
			_ = os.Setenv("PITWALL_DRIVER_SLOTS", "4")
			_ = os.Setenv("PITWALL_DEFAULT_DRIVERS", "VER, NOR,PIA ,RUS")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they should be split and trimmed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DefaultDrivers, convey.ShouldResemble, []string{"VER", "NOR", "PIA", "RUS"})
				convey.So(cfg.DefaultConstructors, convey.ShouldResemble, []string{"MCL", "MER"})
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"PITWALL_CONFIG",
		"PITWALL_ADDR",
		"PITWALL_LOG_FORMAT",
		"PITWALL_RACES_COMPLETED",
		"PITWALL_TOTAL_RACES",
		"PITWALL_PENALTY_RATE",
		"PITWALL_SEARCH_PARALLELISM",
		"PITWALL_FREE_CHANGES",
		"PITWALL_BUDGET",
		"PITWALL_DRIVER_SLOTS",
		"PITWALL_DEFAULT_DRIVERS",
		"PITWALL_DEFAULT_CONSTRUCTORS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "pitwall-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
