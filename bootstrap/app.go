package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/typeioc/debug"
	"github.com/kbukum/typeioc/di"
	"github.com/kbukum/typeioc/logger"
	"github.com/kbukum/typeioc/observability"
	"github.com/kbukum/typeioc/version"
)

// App owns a container and the infrastructure around it.
//
// Example:
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnStart(func(ctx context.Context) error {
//	    app.Container.Bind(di.Key[Clock]()).Scope(app.Container.Singleton())
//	    return nil
//	})
//	app.Run(context.Background())
type App struct {
	Name      string
	Cfg       *Config
	Container *di.Container
	Logger    *logger.Logger
	Summary   *Summary

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	debugServer    *http.Server
	debugListener  net.Listener
}

// NewApp creates an application from cfg. It applies defaults, validates the
// config, initializes the logger and creates the container.
func NewApp(cfg *Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Name:            cfg.Base.Name,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	containerOpts := append([]di.Option{di.WithLogger(app.Logger.WithComponent("di"))}, o.containerOpts...)
	c, err := di.NewFromConfig(&cfg.Config, containerOpts...)
	if err != nil {
		return nil, err
	}
	app.Container = c
	app.Summary = NewSummary(cfg.Base.Name, version.Get().String())
	return app, nil
}

// Run starts the application, blocks until a shutdown signal or context
// cancellation, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask starts the application, runs task and shuts down when the task
// returns. SIGINT and SIGTERM cancel the task's context.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Start initializes telemetry, runs OnStart hooks and starts the debug
// server. It does not block.
func (a *App) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name))

	if err := a.initTelemetry(ctx); err != nil {
		return fmt.Errorf("telemetry initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.startDebugServer(); err != nil {
		return fmt.Errorf("debug server failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()
	return nil
}

// initTelemetry installs the OTLP trace and meter providers the config asks
// for. Without an endpoint nothing is exported.
func (a *App) initTelemetry(ctx context.Context) error {
	tc := a.Cfg.Telemetry
	if tc.Endpoint == "" {
		return nil
	}

	if a.Cfg.Container.Tracing {
		tp, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    a.Name,
			ServiceVersion: version.Version,
			Environment:    a.Cfg.Base.Environment,
			Endpoint:       tc.Endpoint,
			Insecure:       tc.Insecure,
			SampleRate:     tc.SampleRate,
		})
		if err != nil {
			return err
		}
		a.tracerProvider = tp
		a.Summary.TrackTelemetry("traces", tc.Endpoint)
	}
	if a.Cfg.Container.Metrics {
		mp, err := observability.InitMeter(ctx, observability.MeterConfig{
			ServiceName:    a.Name,
			ServiceVersion: version.Version,
			Environment:    a.Cfg.Base.Environment,
			Endpoint:       tc.Endpoint,
			Insecure:       tc.Insecure,
			Interval:       tc.MetricInterval,
		})
		if err != nil {
			return err
		}
		a.meterProvider = mp
		a.Summary.TrackTelemetry("metrics", tc.Endpoint)
	}
	return nil
}

func (a *App) startDebugServer() error {
	if !a.Cfg.Debug.Enabled {
		return nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	debug.Register(router.Group(a.Cfg.Debug.Prefix), a.Container)

	ln, err := net.Listen("tcp", a.Cfg.Debug.Addr)
	if err != nil {
		return err
	}
	a.debugListener = ln
	a.debugServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.debugServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("debug server stopped", logger.MergeWithError(nil, err))
		}
	}()

	a.Summary.TrackDebugServer(ln.Addr().String(), a.Cfg.Debug.Prefix)
	a.Logger.Info("debug server listening", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// DebugAddr returns the address the debug server listens on, or "" when it
// is not running.
func (a *App) DebugAddr() string {
	if a.debugListener == nil {
		return ""
	}
	return a.debugListener.Addr().String()
}

// DisplaySummary prints the startup summary with the current bindings.
func (a *App) DisplaySummary() {
	a.Summary.DisplaySummary(os.Stdout, a.Container.Registrations())
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, then stops the debug server and flushes
// telemetry, all within the graceful timeout.
func (a *App) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		errs = append(errs, fmt.Errorf("onStop hook failed: %w", err))
	}
	if a.debugServer != nil {
		if err := a.debugServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("debug server shutdown: %w", err))
		}
		a.debugServer, a.debugListener = nil, nil
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if a.meterProvider != nil {
		if err := a.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.MergeWithError(nil, err))
		return err
	}
	a.Logger.Info("Application shutdown complete")
	return nil
}
