package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/articles/component"
	"github.com/kbukum/articles/di"
	"github.com/kbukum/articles/logger"
	"github.com/kbukum/articles/route"
	"github.com/kbukum/articles/server"
	"github.com/kbukum/articles/server/middleware"
)

// Startup phases, in order.
const (
	PhaseServices     = "services"
	PhaseMiddleware   = "middleware"
	PhaseRoutes       = "routes"
	PhaseErrorHandler = "error_handler"
	PhaseListen       = "listen"
)

// MiddlewareProvider is implemented by services that contribute request
// middleware, such as tracing. It is installed right after the request id.
type MiddlewareProvider interface {
	Middleware() gin.HandlerFunc
}

// App runs the startup sequence
//
//	services -> middleware -> routes -> error handler -> listen
//
// Each phase completes before the next begins. The first failure stops the
// sequence: later phases do not run and no port is bound.
type App struct {
	Name      string
	Version   string
	Services  *component.Registry
	Server    *server.Server
	Container di.Container
	Logger    *logger.Logger
	Summary   *Summary

	opts            Options
	gracefulTimeout time.Duration

	onReady []Hook
	onStop  []Hook

	mu      sync.Mutex
	started bool
}

// New creates an application from opts. Nothing is installed or bound until
// Start.
func New(opts Options, options ...Option) (*App, error) {
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("bootstrap options: %w", err)
	}

	o := resolveOptions(options)
	log := o.logger
	if log == nil {
		log = logger.Nop()
	}

	registry := component.NewRegistry(log)
	for _, s := range opts.Services {
		if err := registry.Register(s); err != nil {
			return nil, fmt.Errorf("bootstrap options: %w", err)
		}
	}

	var out io.Writer = os.Stdout
	if o.summaryOut != nil {
		out = o.summaryOut
	}

	app := &App{
		Name:            opts.Name,
		Version:         opts.Version,
		Services:        registry,
		Server:          server.New(opts.Server, log),
		Container:       o.container,
		Logger:          log,
		Summary:         NewSummary(opts.Name, opts.Version, out),
		opts:            opts,
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	return app, nil
}

// Start runs the startup phases and returns once the port is bound; serving
// continues in the background. ctx is passed to every service Install and
// bounds nothing else.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return stderrors.New("application already started")
	}
	a.started = true

	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.installServices(ctx); err != nil {
		return a.fail(PhaseServices, err)
	}
	a.installMiddleware()
	if err := a.installRoutes(); err != nil {
		return a.fail(PhaseRoutes, err)
	}
	a.installErrorHandler()
	if err := a.listen(ctx); err != nil {
		return a.fail(PhaseListen, err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary(ctx)
	return nil
}

func (a *App) fail(phase string, err error) error {
	a.Logger.Error("Startup failed", logger.Fields(logger.FieldPhase, phase, logger.FieldError, err.Error()))
	return fmt.Errorf("%s: %w", phase, err)
}

func (a *App) phaseDone(phase string) {
	a.Logger.Debug("Phase complete", logger.Fields(logger.FieldPhase, phase))
}

// installServices installs every service in the configured order and stops
// at the first failure. Services installed before the failure stay
// installed; Shutdown releases them.
func (a *App) installServices(ctx context.Context) error {
	if err := a.Services.InstallAll(ctx); err != nil {
		return err
	}
	a.phaseDone(PhaseServices)
	return nil
}

// installMiddleware installs, in order: request id, middleware contributed by
// services, body size limit, JSON body parsing, request logging and
// permissive CORS.
func (a *App) installMiddleware() {
	a.Server.Use(middleware.RequestID())
	for _, s := range a.Services.All() {
		if p, ok := s.(MiddlewareProvider); ok {
			a.Server.Use(p.Middleware())
		}
	}
	a.Server.Use(
		middleware.GinWrap(middleware.BodySizeLimit(a.opts.Server.MaxBodySize)),
		middleware.BodyParser(),
		middleware.RequestLogger(a.Logger),
		middleware.GinWrap(middleware.CORS(a.opts.Server.CORS)),
	)
	a.phaseDone(PhaseMiddleware)
}

// installRoutes mounts the configured routes, then /health, /info and
// /version.
func (a *App) installRoutes() error {
	if err := route.Config(a.Server, a.opts.Routes...); err != nil {
		return err
	}
	a.Server.RegisterDefaultEndpoints(a.Name, a.Services.HealthAll)
	a.phaseDone(PhaseRoutes)
	return nil
}

// installErrorHandler answers every error recorded by a handler, and every
// recovered panic, with the {"success": false, "err": ...} envelope.
func (a *App) installErrorHandler() {
	a.Server.HandleErrors(server.RespondWithError)
	a.phaseDone(PhaseErrorHandler)
}

func (a *App) listen(ctx context.Context) error {
	if err := a.Server.Start(ctx); err != nil {
		return err
	}
	a.phaseDone(PhaseListen)
	return nil
}

// Addr returns the bound address once listening.
func (a *App) Addr() string {
	return a.Server.Addr()
}

// Run starts the application, runs the OnReady hooks and blocks until
// SIGINT, SIGTERM or ctx cancellation, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		if stopErr := a.Shutdown(context.Background()); stopErr != nil {
			a.Logger.Error("Shutdown after failed start", logger.Fields(logger.FieldError, stopErr.Error()))
		}
		return err
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		_ = a.Shutdown(context.Background())
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Logger.Info("Application ready, waiting for shutdown signal", logger.Fields("addr", a.Addr()))
	a.WaitForSignal(ctx)

	return a.Shutdown(context.Background())
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the OnStop hooks, stops the HTTP server, stops installed
// services in reverse order and closes the DI container, all within the
// graceful timeout. Every step runs; their errors are joined.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		errs = append(errs, fmt.Errorf("onStop: %w", err))
	}
	if err := a.Server.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.Services.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.Container != nil {
		if err := a.Container.Close(); err != nil {
			errs = append(errs, fmt.Errorf("di container: %w", err))
		}
	}

	err := stderrors.Join(errs...)
	if err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	a.Logger.Info("Application shutdown complete")
	return nil
}

// DisplaySummary prints services, routes and live health.
func (a *App) DisplaySummary(ctx context.Context) {
	a.Summary.Display(ctx, a.Services, a.Server)
}
