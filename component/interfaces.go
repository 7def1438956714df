package component

import "context"

// HealthStatus represents the health state of a service.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a service.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Service is a backing capability the application installs before serving
// requests, such as a database connection.
type Service interface {
	// Name identifies the service in logs and registrations.
	Name() string

	// Install makes the service ready. An error aborts application startup.
	Install(ctx context.Context) error
}

// Stopper is implemented by services holding resources that must be released
// on shutdown.
type Stopper interface {
	Stop(ctx context.Context) error
}

// HealthReporter is implemented by services that can check their own health.
type HealthReporter interface {
	Health(ctx context.Context) Health
}

// Description holds summary information for the startup display.
type Description struct {
	// Name is the display name. Empty means the service's Name().
	Name string
	// Type categorizes the service: "database", "tracing", ...
	Type string
	// Details is a one-liner such as "localhost:27017 db=articles".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by services to appear in the
// startup summary.
type Describable interface {
	Describe() Description
}

// Route is a single mounted HTTP route, as listed in the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider reports the routes an HTTP server has mounted.
type RouteProvider interface {
	Routes() []Route
}
