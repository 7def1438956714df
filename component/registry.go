package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/articles/logger"
)

// DefaultStopTimeout bounds each service's Stop call.
const DefaultStopTimeout = 10 * time.Second

type serviceEntry struct {
	service   Service
	installed bool
}

// Registry installs services in registration order and stops them in
// reverse order.
type Registry struct {
	entries []*serviceEntry
	lookup  map[string]*serviceEntry
	log     *logger.Logger
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry. A nil log discards output.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		entries: make([]*serviceEntry, 0),
		lookup:  make(map[string]*serviceEntry),
		log:     log.WithComponent("registry"),
	}
}

// Register appends s to the install order.
func (r *Registry) Register(s Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("service %s already registered", name)
	}

	entry := &serviceEntry{service: s}
	r.entries = append(r.entries, entry)
	r.lookup[name] = entry

	r.log.Debug("Service registered", logger.Fields(logger.FieldService, name))
	return nil
}

// InstallAll installs every service in registration order. The first failure
// stops the sequence and is returned wrapped; services installed before it
// stay installed.
func (r *Registry) InstallAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.installed {
			continue
		}
		name := entry.service.Name()

		start := time.Now()
		if err := entry.service.Install(ctx); err != nil {
			r.log.Error("Service install failed", logger.Fields(
				logger.FieldService, name,
				logger.FieldError, err.Error(),
			))
			return fmt.Errorf("install %s: %w", name, err)
		}

		entry.installed = true
		r.log.Info(name+" installed successfully", logger.Fields(
			logger.FieldDuration, time.Since(start).String(),
		))
	}
	return nil
}

// StopAll stops installed services in reverse order. Every Stopper is called
// even when an earlier one fails; the failures are joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if !entry.installed {
			continue
		}
		entry.installed = false

		stopper, ok := entry.service.(Stopper)
		if !ok {
			continue
		}

		name := entry.service.Name()
		stopCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
		if err := stopper.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
			r.log.Error("Service stop failed", logger.Fields(
				logger.FieldService, name,
				logger.FieldError, err.Error(),
			))
		} else {
			r.log.Info("Service stopped", logger.Fields(logger.FieldService, name))
		}
		cancel()
	}

	return errors.Join(errs...)
}

// HealthAll reports every registered service. Services without a
// HealthReporter are healthy once installed.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.entries))
	for _, entry := range r.entries {
		name := entry.service.Name()
		switch {
		case !entry.installed:
			results = append(results, Health{Name: name, Status: StatusUnhealthy, Message: "not installed"})
		case isReporter(entry.service):
			h := entry.service.(HealthReporter).Health(ctx)
			if h.Name == "" {
				h.Name = name
			}
			results = append(results, h)
		default:
			results = append(results, Health{Name: name, Status: StatusHealthy})
		}
	}
	return results
}

func isReporter(s Service) bool {
	_, ok := s.(HealthReporter)
	return ok
}

// Get returns a registered service by name, or nil if not found.
func (r *Registry) Get(name string) Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, exists := r.lookup[name]; exists {
		return entry.service
	}
	return nil
}

// All returns all registered services in registration order.
func (r *Registry) All() []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Service, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, entry.service)
	}
	return result
}

// Installed returns the names of installed services in install order.
func (r *Registry) Installed() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, entry := range r.entries {
		if entry.installed {
			names = append(names, entry.service.Name())
		}
	}
	return names
}
