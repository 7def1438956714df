package mongodb

import (
	"time"

	"github.com/kbukum/articles/security"
	"github.com/kbukum/articles/validation"
)

const (
	DefaultURI            = "mongodb://localhost:27017"
	DefaultDatabase       = "articles"
	DefaultConnectTimeout = 10 * time.Second
	DefaultMaxPoolSize    = 100
)

// Config holds MongoDB connection settings.
type Config struct {
	URI            string        `yaml:"uri" mapstructure:"uri" validate:"required,uri"`
	Database       string        `yaml:"database" mapstructure:"database" validate:"required"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
	MaxPoolSize    uint64        `yaml:"max_pool_size" mapstructure:"max_pool_size"`
	AppName        string        `yaml:"app_name" mapstructure:"app_name"`

	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.URI == "" {
		c.URI = DefaultURI
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = DefaultMaxPoolSize
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.TLS.Validate()
}
