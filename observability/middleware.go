package observability

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/articles/logger"
)

// Middleware opens a server span per request and records request metrics.
// Before Install and after Stop it passes requests through untouched.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tracer, metrics := s.instruments()
		if tracer == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", method, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String(AttrHTTPMethod, method),
				attribute.String(AttrHTTPRoute, route),
			),
		)
		defer span.End()

		if id := logger.RequestIDFromContext(ctx); id != "" {
			span.SetAttributes(attribute.String(AttrRequestID, id))
		}

		start := time.Now()
		metrics.RecordRequestStart(ctx)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int(AttrHTTPStatus, status))
		if err := c.Errors.Last(); err != nil {
			span.RecordError(err.Err)
			span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		}
		if status >= 500 {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
		metrics.RecordRequestEnd(ctx, method, route, status, time.Since(start))
	}
}
