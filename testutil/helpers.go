package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/articles/component"
)

// THelper installs services for the duration of a test.
type THelper struct {
	t   *testing.T
	ctx context.Context
}

// T wraps a testing.T.
//
//	testutil.T(t).Setup(svc) // stopped when the test ends
func T(t *testing.T) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets the context passed to Install and Stop.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup installs s, failing the test on error. Services implementing
// component.Stopper are stopped when the test ends.
func (h *THelper) Setup(s component.Service) {
	h.t.Helper()
	if err := s.Install(h.ctx); err != nil {
		h.t.Fatalf("failed to install service %s: %v", s.Name(), err)
	}

	if stopper, ok := s.(component.Stopper); ok {
		h.t.Cleanup(func() {
			if err := stopper.Stop(h.ctx); err != nil {
				h.t.Errorf("failed to stop service %s: %v", s.Name(), err)
			}
		})
	}
}
