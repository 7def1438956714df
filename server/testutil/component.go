package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/articles/component"
	"github.com/kbukum/articles/logger"
	"github.com/kbukum/articles/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Component is a test HTTP server installed like any other service.
type Component struct {
	srv *server.Server
	ts  *httptest.Server
	mu  sync.RWMutex
}

var (
	_ component.Service        = (*Component)(nil)
	_ component.Stopper        = (*Component)(nil)
	_ component.HealthReporter = (*Component)(nil)
)

// NewComponent creates a test server that answers errors with the standard
// envelope. Pass a logger to capture request logs.
func NewComponent(log ...*logger.Logger) *Component {
	l := logger.Nop()
	if len(log) > 0 && log[0] != nil {
		l = log[0]
	}
	cfg := server.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0

	srv := server.New(cfg, l)
	srv.HandleErrors(server.RespondWithError)
	return &Component{srv: srv}
}

// Server returns the underlying server for mounting middleware and routes.
func (c *Component) Server() *server.Server {
	return c.srv
}

// BaseURL returns the test server's base URL, empty before Install.
func (c *Component) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ts == nil {
		return ""
	}
	return c.ts.URL
}

func (c *Component) Name() string { return "server-test" }

// Install starts serving. Mount routes before calling it.
func (c *Component) Install(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ts != nil {
		return fmt.Errorf("test server already started")
	}
	c.ts = httptest.NewServer(c.srv.Handler())
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ts != nil {
		c.ts.Close()
		c.ts = nil
	}
	return nil
}

func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ts == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
