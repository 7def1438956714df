package bootstrap

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/articles/component"
	"github.com/kbukum/articles/di"
	"github.com/kbukum/articles/logger"
	"github.com/kbukum/articles/route"
	"github.com/kbukum/articles/server"
)

// Options describes the application to start. It is read once by New.
type Options struct {
	// Port is the TCP port to listen on. 0 asks the kernel for a free port.
	Port int

	// Services are installed in order before anything else happens.
	Services []component.Service

	// Routes are mounted in order after the middleware.
	Routes []route.Route

	// Name and Version identify the application in logs, /info and /health.
	Name    string
	Version string

	// Server holds the remaining HTTP settings. Its Port is ignored.
	Server server.Config
}

func (o *Options) applyDefaults() {
	if o.Name == "" {
		o.Name = "articles"
	}
	if o.Version == "" {
		o.Version = "dev"
	}
	o.Server.ApplyDefaults()
	o.Server.Port = o.Port
}

func (o *Options) validate() error {
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535 (got: %d)", o.Port)
	}
	for i, s := range o.Services {
		if s == nil {
			return fmt.Errorf("service %d is nil", i)
		}
	}
	for i, r := range o.Routes {
		if r == nil {
			return fmt.Errorf("route %d is nil", i)
		}
	}
	return o.Server.Validate()
}

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	container       di.Container
	gracefulTimeout *time.Duration
	summaryOut      io.Writer
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger. The default discards output.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithContainer hands the DI container that constructed the services to the
// App, which closes it on shutdown.
func WithContainer(c di.Container) Option {
	return func(o *appOptions) {
		o.container = c
	}
}

// WithSummaryOutput sets where the startup summary is printed. The default
// is os.Stdout; io.Discard silences it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}
