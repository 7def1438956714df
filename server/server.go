package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/articles/component"
	"github.com/kbukum/articles/logger"
	"github.com/kbukum/articles/server/endpoint"
	"github.com/kbukum/articles/server/middleware"
)

// Server is the HTTP server backed by Gin, served over HTTP/1.1 and
// HTTP/2 cleartext on one port.
//
// Middleware added with Use wraps every route group created afterwards, so
// install middleware before mounting routes. Errors recorded by handlers are
// answered by the function set with HandleErrors; until one is set such
// requests get a bare 500.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger

	mu           sync.RWMutex
	listener     net.Listener
	errorHandler middleware.ErrorResponder
	sealed       sync.Once
}

var _ component.Describable = (*Server)(nil)
var _ component.RouteProvider = (*Server)(nil)

// New creates a Server. Nothing is bound until Start.
func New(cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if log.Zerolog().GetLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: gin.New(),
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.engine.Use(middleware.Recovery(log, s.respond))

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(s.engine, h2s),
		ReadTimeout:  seconds(cfg.ReadTimeout),
		WriteTimeout: seconds(cfg.WriteTimeout),
		IdleTimeout:  seconds(cfg.IdleTimeout),
	}
	return s
}

// GinEngine returns the underlying Gin engine.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the root handler, for serving through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Use appends middleware to the engine.
func (s *Server) Use(handlers ...gin.HandlerFunc) {
	s.engine.Use(handlers...)
}

// Group returns a route group under prefix. The first call closes the
// middleware chain with the error responder so that handler errors are
// answered inside the chain.
func (s *Server) Group(prefix string) *gin.RouterGroup {
	s.sealed.Do(func() {
		s.engine.Use(middleware.Recovery(s.log, s.respond))
	})
	return s.engine.Group(prefix)
}

// HandleErrors sets the function that answers failed requests.
func (s *Server) HandleErrors(h middleware.ErrorResponder) {
	s.mu.Lock()
	s.errorHandler = h
	s.mu.Unlock()
}

func (s *Server) respond(c *gin.Context, err error) {
	s.mu.RLock()
	h := s.errorHandler
	s.mu.RUnlock()

	if h == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	h(c, err)
}

// RegisterDefaultEndpoints mounts /health, /info and /version.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	g := s.Group("")
	g.GET("/health", endpoint.Health(serviceName, checker))
	g.GET("/info", endpoint.Info(serviceName))
	g.GET("/version", endpoint.Version())
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.RLock()
	bound := s.listener != nil
	s.mu.RUnlock()
	if !bound {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Listening reports whether Start has bound the port.
func (s *Server) Listening() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener != nil
}

// Describe returns infrastructure summary info for the startup display.
func (s *Server) Describe() component.Description {
	port := s.config.Port
	if tcp, ok := s.boundTCPAddr(); ok {
		port = tcp.Port
	}
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: s.Addr(),
		Port:    port,
	}
}

func (s *Server) boundTCPAddr() (*net.TCPAddr, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil, false
	}
	tcp, ok := s.listener.Addr().(*net.TCPAddr)
	return tcp, ok
}
