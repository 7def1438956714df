package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/articles/component"
)

// Recorder collects lifecycle calls from several fake services in the order
// they happen.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *Recorder) record(call string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

// Calls returns the recorded calls, e.g. ["install:a", "install:b", "stop:a"].
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Service is a fake component.Service that records its lifecycle calls.
type Service struct {
	name string
	rec  *Recorder

	// InstallErr is returned by Install.
	InstallErr error
	// StopErr is returned by Stop.
	StopErr error
	// OnInstall, when set, runs inside Install before InstallErr is returned.
	OnInstall func(ctx context.Context) error

	mu       sync.Mutex
	installs int
	stops    int
}

var (
	_ component.Service        = (*Service)(nil)
	_ component.Stopper        = (*Service)(nil)
	_ component.HealthReporter = (*Service)(nil)
)

// NewService creates a fake named service recording into rec. rec may be nil.
func NewService(name string, rec *Recorder) *Service {
	return &Service{name: name, rec: rec}
}

// Failing makes Install return err.
func (s *Service) Failing(err error) *Service {
	s.InstallErr = err
	return s
}

func (s *Service) Name() string { return s.name }

func (s *Service) Install(ctx context.Context) error {
	s.mu.Lock()
	s.installs++
	s.mu.Unlock()
	s.rec.record("install:" + s.name)

	if s.OnInstall != nil {
		if err := s.OnInstall(ctx); err != nil {
			return err
		}
	}
	return s.InstallErr
}

func (s *Service) Stop(_ context.Context) error {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()
	s.rec.record("stop:" + s.name)
	return s.StopErr
}

func (s *Service) Health(_ context.Context) component.Health {
	if s.Installs() == 0 || s.InstallErr != nil {
		return component.Health{Name: s.name, Status: component.StatusUnhealthy, Message: "not installed"}
	}
	return component.Health{Name: s.name, Status: component.StatusHealthy}
}

// Installs returns how many times Install was called.
func (s *Service) Installs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installs
}

// Stops returns how many times Stop was called.
func (s *Service) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

func (s *Service) String() string {
	return fmt.Sprintf("testutil.Service(%s)", s.name)
}
