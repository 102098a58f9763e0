// Package api serves the astral-forecast JSON API and the HTML dashboard.
package api

import (
	"fmt"
	"time"

	"github.com/tphakala/astral-forecast/internal/conf"
	"github.com/tphakala/astral-forecast/internal/logger"
)

// GetLogger returns the api package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("api")
}

// Default constants for the HTTP server.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds the HTTP server configuration.
type Config struct {
	Listen string // Listen address, e.g. ":8080"

	// Timeouts
	ReadTimeout     time.Duration // Maximum duration for reading request
	WriteTimeout    time.Duration // Maximum duration for writing response, covers upstream fetches
	IdleTimeout     time.Duration // Maximum time to wait for next request
	ShutdownTimeout time.Duration // Maximum time to wait for graceful shutdown

	Debug bool
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(settings *conf.Settings) *Config {
	listen := settings.WebServer.Listen
	if listen == "" {
		listen = conf.DefaultListen
	}
	return &Config{
		Listen:          listen,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		Debug:           settings.Debug,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	return nil
}
