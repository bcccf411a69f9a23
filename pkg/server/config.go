// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/time/rate"

	"github.com/crashstats/memory-measures/pkg/defaults"
)

// Config holds server configuration.
// Fields tagged with env are read from the environment by NewConfig.
type Config struct {
	// Server identity
	Name    string
	Version string

	// Handlers maps route patterns to API handlers. API handlers run behind
	// the middleware chain; system endpoints do not.
	Handlers map[string]http.HandlerFunc

	// Server configuration
	Address string `env:"ADDRESS"`
	Port    int    `env:"PORT" envDefault:"8080"`

	// Rate limiting configuration
	RateLimit      rate.Limit `env:"RATE_LIMIT" envDefault:"100"`       // requests per second
	RateLimitBurst int        `env:"RATE_LIMIT_BURST" envDefault:"200"` // burst size

	// Request limits
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES"`
	CacheMaxCost int64 `env:"CACHE_MAX_COST"`

	// Timeouts
	ReadTimeout       time.Duration `env:"READ_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// NewConfig returns a new Config with sensible defaults overridden by the
// environment. Use this when you want to customize config programmatically.
func NewConfig() *Config {
	return parseConfig()
}

// parseConfig returns defaults with environment overrides applied.
// Malformed environment values are logged and the defaults kept.
func parseConfig() *Config {
	cfg := &Config{
		Name:              "server",
		Version:           "undefined",
		MaxBodyBytes:      defaults.MaxRequestBodyBytes,
		CacheMaxCost:      defaults.CacheMaxCost,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}

	parsed := *cfg
	if err := env.Parse(&parsed); err != nil {
		slog.Warn("ignoring invalid server environment", "error", err)
		cfg.Port = 8080
		cfg.RateLimit = 100
		cfg.RateLimitBurst = 200
		return cfg
	}

	return &parsed
}

// Option is a functional option for configuring Server instances.
type Option func(*Server)

// WithName sets the server name reported by the root endpoint.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the server version reported by the root endpoint.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithHandler adds API handlers. Later calls add to earlier ones.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		if s.config.Handlers == nil {
			s.config.Handlers = make(map[string]http.HandlerFunc, len(handlers))
		}
		for path, h := range handlers {
			s.config.Handlers[path] = h
		}
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithPort overrides the listen port.
func WithPort(port int) Option {
	return func(s *Server) {
		s.config.Port = port
	}
}
