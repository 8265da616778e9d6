package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Go Microservice API", cfg.ServiceName)
	assert.Equal(t, "Go API", cfg.HealthServiceName)
	assert.Equal(t, "http://api", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "0.0.0.0:8431", cfg.APIAddr)

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "mysql", cfg.DB.Host)
	assert.Equal(t, "microservices_db", cfg.DB.DBName)
	assert.Equal(t, "app_user", cfg.DB.User)
	assert.Equal(t, "userpass", cfg.DB.Password)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("DB_USER", "reader")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("API_URL", "http://api.internal:8431/")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("LOG_DEV", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "shop", cfg.DB.DBName)
	assert.Equal(t, "reader", cfg.DB.User)
	assert.Equal(t, "s3cret", cfg.DB.Password)
	assert.Equal(t, "http://api.internal:8431", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.Log.Dev)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EmptyValuesFallBack(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("API_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.DB.Host)
	assert.Equal(t, "userpass", cfg.DB.Password)
	assert.Equal(t, "http://api", cfg.APIURL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
