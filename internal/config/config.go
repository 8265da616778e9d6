// Package config builds the process configuration once at start-up.
// Values come from environment variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/utilities"
)

const (
	defaultServiceName = "Go Microservice API"
	defaultHealthName  = "Go API"
	defaultAPIURL      = "http://api"
)

// Config holds all application configuration for both binaries.
type Config struct {
	// Names reported by / and /health
	ServiceName       string `env:"SERVICE_NAME" envDefault:"Go Microservice API"`
	HealthServiceName string `env:"HEALTH_SERVICE_NAME" envDefault:"Go API"`

	// Listen addresses
	APIAddr      string `env:"API_ADDR" envDefault:"0.0.0.0:8431"`
	FrontendAddr string `env:"FRONTEND_ADDR" envDefault:"0.0.0.0:8432"`

	// Base URL of the API service as seen from the frontend
	APIURL       string        `env:"API_URL" envDefault:"http://api"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"5s"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	SnowflakeNode int64 `env:"SNOWFLAKE_NODE" envDefault:"1"`

	DB  database.Config  `envPrefix:"DB_"`
	Log utilities.Config `envPrefix:"LOG_"`
}

// Load reads .env (best-effort) and the environment.
func Load() (*Config, error) {
	// a missing .env is fine: real env or defaults apply
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize treats set-but-empty values like unset ones.
func (c *Config) normalize() {
	if strings.TrimSpace(c.ServiceName) == "" {
		c.ServiceName = defaultServiceName
	}
	if strings.TrimSpace(c.HealthServiceName) == "" {
		c.HealthServiceName = defaultHealthName
	}
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 5 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	c.DB = c.DB.WithDefaults()
	c.Log = c.Log.WithDefaults()
}
