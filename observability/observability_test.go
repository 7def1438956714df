package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/articles/component"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestService(t *testing.T) (*Service, *tracetest.InMemoryExporter, *sdkmetric.ManualReader) {
	t.Helper()
	spans := tracetest.NewInMemoryExporter()
	reader := sdkmetric.NewManualReader()
	svc := New(Config{ServiceName: "articles-test"}, nil, WithSpanExporter(spans), WithMetricReader(reader))
	if err := svc.Install(context.Background()); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	return svc, spans, reader
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.MetricInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Endpoint: "no-port", SampleRate: 0.5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for endpoint without port")
	}
	cfg = Config{Endpoint: "localhost:4318", SampleRate: 2}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := newSampler(tt.rate).Description(); got != tt.want {
			t.Errorf("newSampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordRequestStart(ctx)
	metrics.RecordRequestEnd(ctx, http.MethodGet, "/articles/", http.StatusOK, 100*time.Millisecond)
}

func TestService_Lifecycle(t *testing.T) {
	svc := New(Config{}, nil, WithSpanExporter(tracetest.NewInMemoryExporter()), WithMetricReader(sdkmetric.NewManualReader()))
	ctx := context.Background()

	if svc.Name() != ServiceName {
		t.Errorf("Name() = %q", svc.Name())
	}
	if svc.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before Install")
	}
	if err := svc.Install(ctx); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}
	if svc.Health(ctx).Status != component.StatusHealthy {
		t.Error("expected healthy after Install")
	}
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if svc.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy after Stop")
	}
	if err := svc.Stop(ctx); err != nil {
		t.Errorf("second Stop() should be a no-op: %v", err)
	}
}

func TestService_InvalidConfig(t *testing.T) {
	svc := New(Config{Endpoint: "::::"}, nil)
	if err := svc.Install(context.Background()); err == nil {
		t.Fatal("expected Install to fail")
	}
}

func TestMiddleware_PassThroughBeforeInstall(t *testing.T) {
	svc := New(Config{}, nil)

	engine := gin.New()
	engine.Use(svc.Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestMiddleware_RecordsSpanAndMetrics(t *testing.T) {
	svc, spans, reader := newTestService(t)
	ctx := context.Background()

	engine := gin.New()
	engine.Use(svc.Middleware())
	engine.GET("/articles/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	engine.POST("/articles/", func(c *gin.Context) {
		_ = c.Error(errors.New("insert failed"))
		c.AbortWithStatus(http.StatusInternalServerError)
	})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(method, "/articles/", nil))
	}

	if err := svc.ForceFlush(ctx); err != nil {
		t.Fatalf("ForceFlush() failed: %v", err)
	}

	got := spans.GetSpans()
	if len(got) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(got))
	}
	if got[0].Name != "GET /articles/" {
		t.Errorf("unexpected span name %q", got[0].Name)
	}
	if got[1].Status.Code != codes.Error {
		t.Errorf("expected error status on failed request, got %v", got[1].Status.Code)
	}
	if len(got[1].Events) == 0 {
		t.Error("expected the handler error to be recorded on the span")
	}
	var status int64
	for _, kv := range got[0].Attributes {
		if kv.Key == attribute.Key(AttrHTTPStatus) {
			status = kv.Value.AsInt64()
		}
	}
	if status != http.StatusOK {
		t.Errorf("expected status attribute 200, got %d", status)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	m, ok := findMetric(rm, MetricRequestTotal)
	if !ok {
		t.Fatalf("metric %s not recorded", MetricRequestTotal)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("unexpected data type %T", m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("expected 2 requests counted, got %d", total)
	}
	if _, ok := findMetric(rm, MetricRequestDuration); !ok {
		t.Errorf("metric %s not recorded", MetricRequestDuration)
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	svc, spans, _ := newTestService(t)

	engine := gin.New()
	engine.Use(svc.Middleware())

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if err := svc.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() failed: %v", err)
	}
	got := spans.GetSpans()
	if len(got) != 1 || got[0].Name != "GET unmatched" {
		t.Fatalf("unexpected spans: %+v", got)
	}
}

func TestDescribe(t *testing.T) {
	d := New(Config{Endpoint: "collector:4318"}, nil).Describe()
	if d.Type != "tracing" || d.Details != "otlp=collector:4318 sample=1.00" {
		t.Errorf("unexpected description: %+v", d)
	}
}
