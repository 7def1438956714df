// Command articles serves the article API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/articles/article"
	"github.com/kbukum/articles/bootstrap"
	"github.com/kbukum/articles/component"
	"github.com/kbukum/articles/config"
	"github.com/kbukum/articles/database"
	"github.com/kbukum/articles/di"
	"github.com/kbukum/articles/logger"
	"github.com/kbukum/articles/mongodb"
	"github.com/kbukum/articles/observability"
	"github.com/kbukum/articles/route"
)

func main() {
	var cfg Config
	if err := config.Load(serviceName, &cfg); err != nil {
		logger.NewDefault(serviceName).Error("Invalid configuration", logger.ErrorFields("load_config", err))
		os.Exit(1)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	if err := run(context.Background(), &cfg, log); err != nil {
		log.Error("Application failed", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, log *logger.Logger) error {
	app, err := build(cfg, log)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// build wires the configured services, the article store and routes into an
// App. Nothing connects until the App starts.
func build(cfg *Config, log *logger.Logger, extra ...bootstrap.Option) (*bootstrap.App, error) {
	container := di.NewContainer()
	if err := register(container, cfg, log); err != nil {
		return nil, err
	}

	services, err := di.ResolveAll[component.Service](container, cfg.Services)
	if err != nil {
		return nil, fmt.Errorf("resolve services: %w", err)
	}
	store, err := newStore(container, cfg)
	if err != nil {
		return nil, err
	}

	return bootstrap.New(bootstrap.Options{
		Port:     cfg.Server.Port,
		Services: services,
		Routes:   []route.Route{article.NewRoutes(article.NewController(store))},
		Name:     cfg.Name,
		Version:  cfg.Version,
		Server:   cfg.Server,
	}, append([]bootstrap.Option{bootstrap.WithLogger(log), bootstrap.WithContainer(container)}, extra...)...)
}

// register adds a constructor for every known service. Only the services
// listed in cfg.Services are ever resolved.
func register(c *di.UnifiedContainer, cfg *Config, log *logger.Logger) error {
	if err := c.RegisterSingleton(di.KeyConfig, cfg); err != nil {
		return err
	}
	if err := c.RegisterSingleton(di.KeyLogger, log); err != nil {
		return err
	}

	constructors := map[string]interface{}{
		di.Services.Mongo: func() *mongodb.Service {
			return mongodb.New(cfg.Mongo, log)
		},
		di.Services.SQL: func() *database.Service {
			return database.New(cfg.SQL, log).WithAutoMigrate(&article.Record{})
		},
		di.Services.Tracing: func() *observability.Service {
			return observability.New(cfg.Tracing, log)
		},
	}
	for key, ctor := range constructors {
		if err := c.Register(key, ctor); err != nil {
			return fmt.Errorf("register %s: %w", key, err)
		}
	}
	return nil
}

func newStore(c di.Container, cfg *Config) (article.Store, error) {
	backend, err := cfg.storeBackend()
	if err != nil {
		return nil, err
	}
	switch backend {
	case di.Services.SQL:
		svc, err := di.Resolve[*database.Service](c, backend)
		if err != nil {
			return nil, err
		}
		return article.NewSQLStore(svc), nil
	default:
		svc, err := di.Resolve[*mongodb.Service](c, backend)
		if err != nil {
			return nil, err
		}
		return article.NewMongoStore(svc), nil
	}
}
