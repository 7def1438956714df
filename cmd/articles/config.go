package main

import (
	"fmt"
	"slices"

	"github.com/kbukum/articles/config"
	"github.com/kbukum/articles/database"
	"github.com/kbukum/articles/di"
	"github.com/kbukum/articles/mongodb"
	"github.com/kbukum/articles/observability"
	"github.com/kbukum/articles/server"
)

const serviceName = "articles"

// Config is the root configuration of the articles binary.
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Server server.Config `yaml:"server" mapstructure:"server"`

	// Services lists the services to install, in order. Exactly one of
	// "mongo" and "sql" backs the article routes; "tracing" is optional.
	Services []string `yaml:"services" mapstructure:"services"`

	Mongo   mongodb.Config       `yaml:"mongo" mapstructure:"mongo"`
	SQL     database.Config      `yaml:"sql" mapstructure:"sql"`
	Tracing observability.Config `yaml:"tracing" mapstructure:"tracing"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if len(c.Services) == 0 {
		c.Services = []string{di.Services.Mongo}
	}

	c.Mongo.ApplyDefaults()
	c.SQL.ApplyDefaults()

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.ServiceVersion == "" {
		c.Tracing.ServiceVersion = c.Version
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
	c.Tracing.ApplyDefaults()
}

// Validate checks the service list and the configuration of every selected
// service. Unselected services are not validated.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}

	known := []string{di.Services.Mongo, di.Services.SQL, di.Services.Tracing}
	seen := make(map[string]bool, len(c.Services))
	for _, name := range c.Services {
		if !slices.Contains(known, name) {
			return fmt.Errorf("services: unknown service %q (known: %v)", name, known)
		}
		if seen[name] {
			return fmt.Errorf("services: %q listed twice", name)
		}
		seen[name] = true
	}

	if _, err := c.storeBackend(); err != nil {
		return err
	}
	if seen[di.Services.Mongo] {
		if err := c.Mongo.Validate(); err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
	}
	if seen[di.Services.SQL] {
		if err := c.SQL.Validate(); err != nil {
			return fmt.Errorf("sql: %w", err)
		}
	}
	if seen[di.Services.Tracing] {
		if err := c.Tracing.Validate(); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}
	return nil
}

// storeBackend returns the service that stores articles.
func (c *Config) storeBackend() (string, error) {
	hasMongo := slices.Contains(c.Services, di.Services.Mongo)
	hasSQL := slices.Contains(c.Services, di.Services.SQL)
	switch {
	case hasMongo && hasSQL:
		return "", fmt.Errorf("services: choose one of %q and %q", di.Services.Mongo, di.Services.SQL)
	case hasMongo:
		return di.Services.Mongo, nil
	case hasSQL:
		return di.Services.SQL, nil
	default:
		return "", fmt.Errorf("services: one of %q or %q is required", di.Services.Mongo, di.Services.SQL)
	}
}
