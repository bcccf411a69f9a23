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

// Package server provides the HTTP server that hosts the memory measures API.
//
// # Architecture
//
// API handlers are registered with WithHandler and run behind a middleware
// chain:
//
//   - Prometheus RED metrics per route
//   - API version negotiation (X-API-Version)
//   - Request ID tracking (X-Request-Id, UUID)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Request logging
//
// System endpoints bypass the chain:
//
//	GET /health   liveness, always 200
//	GET /ready    readiness, 503 until the listener is up and during shutdown
//	GET /metrics  Prometheus exposition
//	GET /         name, version and routes
//
// # Usage
//
//	s := server.New(
//	    server.WithName("memmeasuresd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/measures": h.HandleMeasures,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run blocks until SIGINT or SIGTERM and then drains in-flight requests for
// up to ShutdownTimeout.
//
// # Configuration
//
// NewConfig reads these environment variables:
//
//	PORT                listen port (default 8080)
//	ADDRESS             listen address (default all interfaces)
//	RATE_LIMIT          requests per second (default 100)
//	RATE_LIMIT_BURST    burst size (default 200)
//	MAX_BODY_BYTES      request body cap
//	CACHE_MAX_COST      result cache budget in bytes
//	READ_TIMEOUT, READ_HEADER_TIMEOUT, WRITE_TIMEOUT, IDLE_TIMEOUT,
//	SHUTDOWN_TIMEOUT    Go durations such as 30s
//
// # Errors
//
// Every error reply has the same JSON shape:
//
//	{
//	  "code": "INVALID_REPORT",
//	  "message": "memory report rejected",
//	  "details": {"path": "explicit/foo", "error": "bad units for an explicit/ report: explicit/foo, 1"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-01T12:00:00Z",
//	  "retryable": false
//	}
//
// WriteErrorFromErr derives the status and code from a StructuredError.
package server
