package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"DevInsights/internal/api"
	"DevInsights/internal/config"
	"DevInsights/internal/harvest"
	"DevInsights/internal/infrastructure/browser"
	"DevInsights/internal/infrastructure/llm"
	"DevInsights/internal/infrastructure/scheduler"
	"DevInsights/internal/insight"
	"DevInsights/internal/logging"
	"DevInsights/internal/ports"
	"DevInsights/internal/throttle"
	"DevInsights/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// Overrides replace adapters built from configuration; nil fields keep the configured ones.
type Overrides struct {
	Launcher  ports.BrowserLauncher
	Generator ports.TextGenerator
}

// New builds the application from configuration.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	return NewWithOverrides(ctx, cfg, baseLogger, Overrides{})
}

// NewWithOverrides is New with injectable browser and model adapters.
func NewWithOverrides(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, o Overrides) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	launcher := o.Launcher
	if launcher == nil {
		launcher = browser.NewLauncher(cfg.Browser, baseLogger.With("component", "browser"))
	}

	generator := o.Generator
	if generator == nil {
		var err error
		generator, err = llm.DefaultRegistry().Build(ctx, cfg.LLM)
		if err != nil {
			return nil, err
		}
	}

	timeouts := harvest.Timeouts{
		Navigation: cfg.Browser.NavigationTimeout,
		Selector:   cfg.Browser.SelectorTimeout,
	}

	pageDelay := throttle.NewFixed(cfg.Search.PageDelay)
	profileDelay := throttle.NewFixed(cfg.Profiles.Delay)
	llmDelay := throttle.NewFixed(cfg.LLM.Delay)
	baseLogger.Debug("request pacing",
		"search_page_delay", pageDelay.Delay(),
		"profile_delay", profileDelay.Delay(),
		"llm_delay", llmDelay.Delay(),
	)

	searcher := harvest.NewSearchHarvester(launcher, harvest.SearchOptions{
		BaseURL:         cfg.Search.BaseURL,
		DefaultMaxPages: cfg.Search.MaxPages,
		Timeouts:        timeouts,
		Throttle:        pageDelay,
		Logger:          baseLogger.With("component", "harvest.search"),
	})

	scraper := harvest.NewProfileHarvester(launcher, harvest.ProfileOptions{
		Timeouts: timeouts,
		Throttle: profileDelay,
		Logger:   baseLogger.With("component", "harvest.profile"),
	})

	analyzer := insight.NewGenerator(generator, insight.Options{
		Temperature: cfg.LLM.Temperature,
		MaxAttempts: cfg.LLM.MaxAttempts,
		Throttle:    llmDelay,
		Logger:      baseLogger.With("component", "insight"),
	})

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Searcher:    searcher,
		Scraper:     scraper,
		Analyzer:    analyzer,
		DefaultTerm: cfg.Search.DefaultTerm,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}, nil
}

// Pipeline exposes the collection use case.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Collect performs a single pipeline execution.
func (a *Application) Collect(ctx context.Context, q usecase.Query) (*usecase.Result, error) {
	start := time.Now()
	profiles, err := a.pipeline.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	return usecase.Summarize(profiles, time.Since(start)), nil
}

// Router builds the HTTP handler tree.
func (a *Application) Router() *gin.Engine {
	handler := api.NewHandler(a.pipeline, a.logger.With("component", "api"))
	return api.SetupRoutes(handler, a.logger.With("component", "http"))
}

// Serve listens on the configured port until ctx is cancelled, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", a.cfg.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server is listening", "port", a.cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Watch runs the pipeline every interval until ctx is cancelled; each outcome goes to sink.
func (a *Application) Watch(ctx context.Context, q usecase.Query, every time.Duration, sink usecase.RunSink) error {
	driver := scheduler.NewIntervalScheduler(every)
	sched := usecase.NewScheduler(driver, a.pipeline, q, sink)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return sched.Stop(stopCtx)
}
