package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/articles/component"
	"github.com/kbukum/articles/errors"
	"github.com/kbukum/articles/logger"
	"github.com/kbukum/articles/util"
)

// ServiceName is the registry name of the SQL database service.
const ServiceName = "sql"

const healthTimeout = 2 * time.Second

// Service owns a GORM connection pool for the application lifetime.
type Service struct {
	cfg    Config
	log    *logger.Logger
	models []interface{}

	mu sync.RWMutex
	db *DB
}

var (
	_ component.Service        = (*Service)(nil)
	_ component.Stopper        = (*Service)(nil)
	_ component.HealthReporter = (*Service)(nil)
	_ component.Describable    = (*Service)(nil)
)

// New creates an uninstalled SQL service. Defaults are applied to cfg.
func New(cfg Config, log *logger.Logger) *Service {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Service{cfg: cfg, log: log.WithComponent(ServiceName)}
}

// WithAutoMigrate registers models migrated on Install when AutoMigrate is
// set.
func (s *Service) WithAutoMigrate(models ...interface{}) *Service {
	s.models = append(s.models, models...)
	return s
}

func (s *Service) Name() string { return ServiceName }

// Install opens the database and runs auto-migration. A connection failure is
// reported as CONNECTION_FAILED.
func (s *Service) Install(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("sql config: %w", err)
	}

	db, err := Open(ctx, s.cfg, s.log)
	if err != nil {
		return errors.ConnectionFailed(ServiceName).WithCause(err)
	}

	if s.cfg.AutoMigrate && len(s.models) > 0 {
		if err := db.AutoMigrate(s.models...); err != nil {
			_ = db.Close()
			return fmt.Errorf("sql auto-migrate: %w", err)
		}
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()

	s.log.Debug("connected", logger.Fields("driver", s.cfg.Driver, "dsn", s.maskedDSN()))
	return nil
}

// Stop closes the connection pool. It is a no-op before Install.
func (s *Service) Stop(_ context.Context) error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}

func (s *Service) Health(ctx context.Context) component.Health {
	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()

	if db == nil {
		return component.Health{Name: ServiceName, Status: component.StatusUnhealthy, Message: "not connected"}
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return component.Health{Name: ServiceName, Status: component.StatusUnhealthy, Message: fmt.Sprintf("ping failed: %v", err)}
	}
	return component.Health{Name: ServiceName, Status: component.StatusHealthy}
}

func (s *Service) Describe() component.Description {
	details := fmt.Sprintf("%s %s pool=%d/%d", s.cfg.Driver, s.maskedDSN(), s.cfg.MaxOpenConns, s.cfg.MaxIdleConns)
	if s.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return component.Description{Name: "SQL", Type: "database", Details: details}
}

// DB returns the GORM handle, nil before Install.
func (s *Service) DB() *gorm.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil
	}
	return s.db.GormDB
}

func (s *Service) maskedDSN() string {
	if s.cfg.Driver == DriverSQLite {
		return s.cfg.DSN
	}
	return util.MaskURI(s.cfg.DSN)
}
