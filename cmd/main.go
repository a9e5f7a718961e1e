package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/pitwall/internal/adapters/http/api"
	"github.com/okian/pitwall/internal/adapters/repository"
	app "github.com/okian/pitwall/internal/app"
	"github.com/okian/pitwall/internal/config"
	"github.com/okian/pitwall/internal/domain/optimizer"
	"github.com/okian/pitwall/pkg/logger"
	"github.com/okian/pitwall/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	writeTimeoutSlack         = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		log.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	if every := cfg.ReloadInterval(); every > 0 {
		go startCatalogReloader(ctx, svc, every, log)
	}

	srv := newHTTPServer(cfg, svc, log)

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newService wires the catalog store and search engine from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	store := repository.NewFileStore(cfg.DataDir,
		repository.WithDriversFile(cfg.DriversFile),
		repository.WithConstructorsFile(cfg.ConstructorsFile),
		repository.WithForecastFile(cfg.ForecastFile),
		repository.WithLogger(log.Named("repository")),
	)
	engine := optimizer.NewEngine(
		optimizer.WithPenaltyRate(cfg.PenaltyRate),
		optimizer.WithRosterSize(cfg.DriverSlots, cfg.ConstructorSlots),
		optimizer.WithParallelism(cfg.SearchParallelism),
		optimizer.WithLogger(log.Named("optimizer")),
	)
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithEngine(engine),
		app.WithSeason(cfg.Season()),
		app.WithWeightParams(cfg.WeightParams()),
		app.WithDefaultBudget(cfg.Budget),
		app.WithDefaultFreeChanges(cfg.FreeChanges),
		app.WithDefaultRoster(cfg.DefaultRoster()),
	)
}

// newHTTPServer builds the API server. The write timeout leaves room for the
// suggest deadline to fire and its 504 to be written.
func newHTTPServer(cfg *config.Config, svc *app.Service, log logger.Logger) *http.Server {
	apiServer := api.NewServer(svc,
		api.WithSuggestTimeout(cfg.SuggestTimeout()),
		api.WithLogger(log.Named("http")),
	)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.SuggestTimeout() + writeTimeoutSlack,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startCatalogReloader re-reads the catalog files every interval. A failed
// reload keeps serving the previous catalog.
func startCatalogReloader(ctx context.Context, svc *app.Service, every time.Duration, log logger.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Reload(ctx); err != nil {
				log.Warn(ctx, "catalog reload failed", logger.Error(err))
			}
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
