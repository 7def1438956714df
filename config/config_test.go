package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Server        struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Services []string `mapstructure:"services"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != EnvDevelopment {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging defaults, got %+v", cfg.Logging)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: EnvProduction}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if !cfg.IsProduction() {
			t.Error("expected IsProduction")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: EnvStaging}, ""},
		{"missing name", ServiceConfig{Environment: EnvProduction}, "name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: articles
environment: staging
server:
  port: 9090
services:
  - mongo
  - tracing
`)

	var cfg testConfig
	if err := LoadConfig("articles", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "articles" || cfg.Environment != EnvStaging {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Services, []string{"mongo", "tracing"}) {
		t.Errorf("unexpected services: %v", cfg.Services)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: articles\nserver:\n  port: 9090\n")
	t.Setenv("SERVER_PORT", "7070")

	var cfg testConfig
	if err := LoadConfig("articles", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env"))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected env override 7070, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: articles\n")
	envPath := writeFile(t, dir, ".env", "ARTICLES_TEST_VERSION_LABEL=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("ARTICLES_TEST_VERSION_LABEL") })

	var cfg struct {
		Articles struct {
			Test struct {
				VersionLabel string `mapstructure:"version_label"`
			} `mapstructure:"test"`
		} `mapstructure:"articles"`
	}
	if err := LoadConfig("articles", &cfg, WithConfigFile(path), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Articles.Test.VersionLabel != "from-dotenv" {
		t.Errorf("expected value from .env, got %q", cfg.Articles.Test.VersionLabel)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("articles", &cfg,
		WithConfigFile("/nonexistent/config.yml"),
		WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected missing files to be ignored, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: [unclosed\n")

	var cfg testConfig
	if err := LoadConfig("articles", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadAppliesDefaultsAndValidates(t *testing.T) {
	dir := t.TempDir()
	missing := WithEnvFile(filepath.Join(dir, "missing.env"))

	good := writeFile(t, dir, "good.yml", "name: articles\n")
	var cfg testConfig
	if err := Load("articles", &cfg, WithConfigFile(good), missing); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected defaults to be applied, got %q", cfg.Environment)
	}

	bad := writeFile(t, dir, "bad.yml", "environment: qa\n")
	var invalid testConfig
	if err := Load("articles", &invalid, WithConfigFile(bad), missing); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/articles/config.yml": true,
		"./config.yml":              true,
		"./.env":                    true,
		"./cmd/articles/.env":       true,
	}}
	resolver := &Resolver{FileSystem: fs}

	files := resolver.ResolveFiles("articles", LoaderConfig{})
	if files.ConfigFile != "./cmd/articles/config.yml" {
		t.Errorf("expected cmd config first, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./cmd/articles/.env" {
		t.Errorf("expected cmd .env first, got %q", files.EnvFile)
	}
}

func TestResolverPrefersServiceEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./.env":          true,
		"./.env.articles": true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("articles", LoaderConfig{})
	if files.EnvFile != "./.env.articles" {
		t.Errorf("expected .env.articles, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{}}
	files := resolver.ResolveFiles("articles", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
		t.Errorf("explicit paths should win, got %+v", files)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	tests := map[string][]string{
		"SERVICES":          {"services"},
		"SERVER_PORT":       {"server_port", "server.port"},
		"SQL_POOL_MAX_OPEN": {"sql_pool_max_open", "sql.pool_max_open", "sql.pool.max_open", "sql.pool.max.open"},
	}
	for in, want := range tests {
		if got := envKeyVariants(in); !reflect.DeepEqual(got, want) {
			t.Errorf("envKeyVariants(%q) = %v, want %v", in, got, want)
		}
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
