package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kbukum/articles/component"
	"github.com/kbukum/articles/errors"
	"github.com/kbukum/articles/logger"
	"github.com/kbukum/articles/util"
)

// ServiceName is the registry name of the MongoDB service.
const ServiceName = "mongo"

const healthTimeout = 2 * time.Second

// Service owns a MongoDB client. Install connects and verifies the primary is
// reachable; Stop disconnects.
type Service struct {
	cfg    Config
	log    *logger.Logger
	mu     sync.RWMutex
	client *mongo.Client
}

var (
	_ component.Service        = (*Service)(nil)
	_ component.Stopper        = (*Service)(nil)
	_ component.HealthReporter = (*Service)(nil)
	_ component.Describable    = (*Service)(nil)
)

// New creates an uninstalled MongoDB service. Defaults are applied to cfg.
func New(cfg Config, log *logger.Logger) *Service {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Service{cfg: cfg, log: log.WithComponent(ServiceName)}
}

func (s *Service) Name() string { return ServiceName }

// Install connects to MongoDB and pings the primary. A connection that cannot
// be verified within ConnectTimeout is closed and reported as
// CONNECTION_FAILED.
func (s *Service) Install(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("mongo config: %w", err)
	}

	opts := options.Client().
		ApplyURI(s.cfg.URI).
		SetMaxPoolSize(s.cfg.MaxPoolSize).
		SetConnectTimeout(s.cfg.ConnectTimeout).
		SetServerSelectionTimeout(s.cfg.ConnectTimeout)
	if s.cfg.AppName != "" {
		opts.SetAppName(s.cfg.AppName)
	}
	tlsCfg, err := s.cfg.TLS.Build()
	if err != nil {
		return fmt.Errorf("mongo config: %w", err)
	}
	if tlsCfg != nil {
		opts.SetTLSConfig(tlsCfg)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return errors.ConnectionFailed(ServiceName).WithCause(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return errors.ConnectionFailed(ServiceName).WithCause(err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	s.log.Debug("connected", logger.Fields("uri", util.MaskURI(s.cfg.URI), "database", s.cfg.Database))
	return nil
}

// Stop disconnects the client. It is a no-op before Install.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// Health pings the primary.
func (s *Service) Health(ctx context.Context) component.Health {
	client := s.Client()
	if client == nil {
		return component.Health{Name: ServiceName, Status: component.StatusUnhealthy, Message: "not connected"}
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return component.Health{Name: ServiceName, Status: component.StatusUnhealthy, Message: fmt.Sprintf("ping failed: %v", err)}
	}
	return component.Health{Name: ServiceName, Status: component.StatusHealthy}
}

func (s *Service) Describe() component.Description {
	return component.Description{
		Name:    "MongoDB",
		Type:    "database",
		Details: fmt.Sprintf("%s db=%s pool=%d", util.MaskURI(s.cfg.URI), s.cfg.Database, s.cfg.MaxPoolSize),
	}
}

// Client returns the connected client, nil before Install.
func (s *Service) Client() *mongo.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Database returns the configured database, nil before Install.
func (s *Service) Database() *mongo.Database {
	client := s.Client()
	if client == nil {
		return nil
	}
	return client.Database(s.cfg.Database)
}

// Collection returns a collection of the configured database, nil before
// Install.
func (s *Service) Collection(name string) *mongo.Collection {
	db := s.Database()
	if db == nil {
		return nil
	}
	return db.Collection(name)
}
