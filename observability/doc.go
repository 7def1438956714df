// Package observability provides the tracing service: OpenTelemetry trace
// and meter providers exporting over OTLP/HTTP, plus a Gin middleware that
// opens a span per request and records request count and duration.
//
//	svc := observability.New(cfg.Tracing, log)
//	_ = svc.Install(ctx)
//	defer svc.Stop(ctx)
//	srv.Use(svc.Middleware())
package observability
