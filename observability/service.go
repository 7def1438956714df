package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/articles/component"
	"github.com/kbukum/articles/logger"
)

// ServiceName is the registry name of the tracing service.
const ServiceName = "tracing"

// Service installs OpenTelemetry trace and meter providers exporting over
// OTLP/HTTP, and serves the request middleware that uses them.
type Service struct {
	cfg          Config
	log          *logger.Logger
	spanExporter sdktrace.SpanExporter
	metricReader sdkmetric.Reader

	mu      sync.RWMutex
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	tracer  trace.Tracer
	metrics *Metrics
}

var (
	_ component.Service        = (*Service)(nil)
	_ component.Stopper        = (*Service)(nil)
	_ component.HealthReporter = (*Service)(nil)
	_ component.Describable    = (*Service)(nil)
)

// Option customizes a Service.
type Option func(*Service)

// WithSpanExporter replaces the OTLP span exporter.
func WithSpanExporter(e sdktrace.SpanExporter) Option {
	return func(s *Service) { s.spanExporter = e }
}

// WithMetricReader replaces the periodic OTLP metric reader.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(s *Service) { s.metricReader = r }
}

// New creates an uninstalled tracing service. Defaults are applied to cfg.
func New(cfg Config, log *logger.Logger, opts ...Option) *Service {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{cfg: cfg, log: log.WithComponent(ServiceName)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Name() string { return ServiceName }

// Install creates the providers and registers them as the global OpenTelemetry
// providers. The exporters connect lazily, so a missing collector does not
// fail startup.
func (s *Service) Install(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("tracing config: %w", err)
	}

	res, err := newResource(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("creating resource: %w", err)
	}

	exporter := s.spanExporter
	if exporter == nil {
		if exporter, err = newSpanExporter(ctx, s.cfg); err != nil {
			return err
		}
	}
	reader := s.metricReader
	if reader == nil {
		if reader, err = newMetricReader(ctx, s.cfg); err != nil {
			_ = exporter.Shutdown(ctx)
			return err
		}
	}

	tp := newTracerProvider(exporter, res, s.cfg.SampleRate)
	mp := newMeterProvider(reader, res)
	metrics, err := NewMetrics(mp.Meter(instrumentationName))
	if err != nil {
		_ = stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
		return err
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	s.mu.Lock()
	s.tp, s.mp = tp, mp
	s.tracer = tp.Tracer(instrumentationName)
	s.metrics = metrics
	s.mu.Unlock()

	s.log.Debug("providers installed", logger.Fields(
		"endpoint", s.cfg.Endpoint,
		"sample_rate", s.cfg.SampleRate,
		"metric_interval", s.cfg.MetricInterval.String(),
	))
	return nil
}

// Stop flushes and shuts down both providers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	tp, mp := s.tp, s.mp
	s.tp, s.mp, s.tracer, s.metrics = nil, nil, nil, nil
	s.mu.Unlock()

	if tp == nil {
		return nil
	}
	return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
}

// ForceFlush exports pending spans and metrics.
func (s *Service) ForceFlush(ctx context.Context) error {
	s.mu.RLock()
	tp, mp := s.tp, s.mp
	s.mu.RUnlock()

	if tp == nil {
		return nil
	}
	return stderrors.Join(tp.ForceFlush(ctx), mp.ForceFlush(ctx))
}

func (s *Service) Health(_ context.Context) component.Health {
	if !s.installed() {
		return component.Health{Name: ServiceName, Status: component.StatusUnhealthy, Message: "not installed"}
	}
	return component.Health{Name: ServiceName, Status: component.StatusHealthy}
}

func (s *Service) Describe() component.Description {
	return component.Description{
		Name:    "OpenTelemetry",
		Type:    "tracing",
		Details: fmt.Sprintf("otlp=%s sample=%.2f", s.cfg.Endpoint, s.cfg.SampleRate),
	}
}

func (s *Service) installed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tp != nil
}

func (s *Service) instruments() (trace.Tracer, *Metrics) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracer, s.metrics
}
