package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/articles/component"
	apperrors "github.com/kbukum/articles/errors"
	"github.com/kbukum/articles/logger"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultURI, cfg.URI)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.EqualValues(t, DefaultMaxPoolSize, cfg.MaxPoolSize)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{URI: "not a uri", Database: "articles"}
	assert.Error(t, cfg.Validate())

	cfg = Config{URI: DefaultURI}
	assert.Error(t, cfg.Validate())
}

func TestInstallUnreachable(t *testing.T) {
	svc := New(Config{URI: "mongodb://127.0.0.1:1", ConnectTimeout: 300 * time.Millisecond}, logger.Nop())

	err := svc.Install(context.Background())
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, apperrors.ErrCodeConnectionFailed, appErr.Code)
	assert.Nil(t, svc.Client())
	assert.Nil(t, svc.Collection("articles"))
}

func TestInstallInvalidConfig(t *testing.T) {
	svc := New(Config{URI: "::"}, nil)
	assert.Error(t, svc.Install(context.Background()))
}

func TestHealthBeforeInstall(t *testing.T) {
	svc := New(Config{}, nil)

	h := svc.Health(context.Background())
	assert.Equal(t, ServiceName, h.Name)
	assert.Equal(t, component.StatusUnhealthy, h.Status)
}

func TestStopBeforeInstall(t *testing.T) {
	assert.NoError(t, New(Config{}, nil).Stop(context.Background()))
}

func TestDescribeMasksPassword(t *testing.T) {
	svc := New(Config{URI: "mongodb://app:secret@db:27017"}, nil)

	d := svc.Describe()
	assert.NotContains(t, d.Details, "secret")
	assert.Contains(t, d.Details, "db=articles")
}

func TestConfigValidateTLS(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.TLS.CertFile = "client.pem"
	assert.Error(t, cfg.Validate(), "cert_file without key_file")
}

func TestInstallUnreadableCA(t *testing.T) {
	cfg := Config{ConnectTimeout: 300 * time.Millisecond}
	cfg.TLS.CAFile = "/nonexistent/ca.pem"
	err := New(cfg, nil).Install(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ca_file")
}
