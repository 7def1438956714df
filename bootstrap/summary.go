package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/articles/component"
)

// HTTPServer is what the summary needs from the server.
type HTTPServer interface {
	component.Describable
	component.RouteProvider
}

// Summary prints the startup report once the application is listening.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary printing to out.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display prints infrastructure, routes and live health.
func (s *Summary) Display(ctx context.Context, registry *component.Registry, srv HTTPServer) {
	w := s.out
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	infra := describeAll(registry)
	if srv != nil {
		infra = append(infra, srv.Describe())
	}
	fmt.Fprintf(w, "📊 Infrastructure\n")
	if len(infra) == 0 {
		fmt.Fprintf(w, "   └── No services registered\n")
	}
	for i, d := range infra {
		details := d.Details
		if d.Port > 0 && !strings.HasSuffix(details, fmt.Sprintf(":%d", d.Port)) {
			details = fmt.Sprintf("%s (:%d)", details, d.Port)
		}
		fmt.Fprintf(w, "   %s %s [%s]: %s\n", branch(i, len(infra)), d.Name, d.Type, details)
	}

	if srv != nil {
		if routes := srv.Routes(); len(routes) > 0 {
			fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(routes))
			for i, r := range routes {
				fmt.Fprintf(w, "   %s %-7s %s → %s\n", branch(i, len(routes)), r.Method, r.Path, r.Handler)
			}
		}
	}

	if registry != nil {
		if results := registry.HealthAll(ctx); len(results) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = " (" + h.Message + ")"
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", branch(i, len(results)), healthStatusIcon(h.Status), h.Name, h.Status, msg)
			}
		}
	}
	fmt.Fprintln(w)
}

func describeAll(registry *component.Registry) []component.Description {
	if registry == nil {
		return nil
	}
	var out []component.Description
	for _, s := range registry.All() {
		d := component.Description{Type: "service"}
		if desc, ok := s.(component.Describable); ok {
			d = desc.Describe()
		}
		if d.Name == "" {
			d.Name = s.Name()
		}
		out = append(out, d)
	}
	return out
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
