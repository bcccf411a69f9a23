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

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/crashstats/memory-measures/pkg/cache"
	"github.com/crashstats/memory-measures/pkg/logging"
	"github.com/crashstats/memory-measures/pkg/server"
)

const (
	name           = "memmeasuresd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags, e.g.
	// -X "github.com/crashstats/memory-measures/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
func Serve() error {
	logging.SetDefaultStructuredLogger(name, version)
	return ServeWithContext(context.Background())
}

// ServeWithContext runs the API server until ctx is canceled or the process
// receives SIGINT or SIGTERM. opts are applied after the environment
// configuration. The default logger is left as configured by the caller.
func ServeWithContext(ctx context.Context, opts ...server.Option) error {
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	cfg := server.NewConfig()
	cfg.Name = name
	cfg.Version = version

	mc, err := cache.New(cfg.CacheMaxCost)
	if err != nil {
		slog.Error("failed to create result cache", "error", err)
		return err
	}
	defer mc.Close()

	h := NewHandler(
		WithCache(mc),
		WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	s := server.New(append([]server.Option{
		server.WithConfig(cfg),
		server.WithHandler(Routes(h)),
	}, opts...)...)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	hits, misses, ratio := mc.Stats()
	slog.Info("result cache stats", "hits", hits, "misses", misses, "ratio", ratio)
	return nil
}

// Routes returns the API routes served by h.
func Routes(h *Handler) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/measures": h.HandleMeasures,
	}
}
