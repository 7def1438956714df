package observability

import (
	"time"

	"github.com/kbukum/articles/security"
	"github.com/kbukum/articles/validation"
)

// Config configures the OpenTelemetry trace and meter providers.
type Config struct {
	// ServiceName, ServiceVersion and Environment describe the resource. main
	// fills them from the service configuration when empty.
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`

	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required,hostname_port"`

	// Insecure disables TLS towards the collector. TLS is ignored when set.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// SampleRate is the trace sampling ratio. Zero means 1.0; leave the
	// tracing service out of the service list to disable tracing.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`

	// MetricInterval is the metric export interval.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults sets development defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "articles"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = 15 * time.Second
	}
}

func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.TLS.Validate()
}
