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
	"bytes"
	"compress/gzip"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/crashstats/memory-measures/pkg/cache"
	"github.com/crashstats/memory-measures/pkg/defaults"
	"github.com/crashstats/memory-measures/pkg/errors"
	"github.com/crashstats/memory-measures/pkg/measures"
	"github.com/crashstats/memory-measures/pkg/memreport"
	"github.com/crashstats/memory-measures/pkg/serializer"
	"github.com/crashstats/memory-measures/pkg/server"
)

// MeasuresRequest is the body of POST /v1/measures.
type MeasuresRequest struct {
	PID          *int              `json:"pid" yaml:"pid"`
	MemoryReport *memreport.Report `json:"memory_report" yaml:"memory_report"`
}

// MeasuresResponse is the reply to a successful extraction.
type MeasuresResponse struct {
	PID            int               `json:"pid" yaml:"pid"`
	MemoryMeasures measures.Measures `json:"memory_measures" yaml:"memory_measures"`
}

// Handler serves memory measure extraction over HTTP.
type Handler struct {
	cache        *cache.MeasuresCache
	maxBodyBytes int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCache enables result caching.
func WithCache(c *cache.MeasuresCache) HandlerOption {
	return func(h *Handler) {
		h.cache = c
	}
}

// WithMaxBodyBytes caps the decoded request body size.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler returns a Handler.
func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{
		maxBodyBytes: defaults.MaxRequestBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleMeasures extracts memory measures for the requested process from a
// JSON or YAML body, optionally gzip-encoded.
func (h *Handler) HandleMeasures(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.MeasuresHandlerTimeout)
	defer cancel()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodPost},
			})
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	req, err := h.decodeRequest(w, r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid request", nil)
		return
	}

	if err := ctx.Err(); err != nil {
		server.WriteErrorFromErr(w, r,
			errors.Wrap(errors.ErrCodeTimeout, "request timed out", err), "Request timed out", nil)
		return
	}

	ms, hit, err := h.extract(req.MemoryReport, *req.PID)
	if err != nil {
		slog.Debug("extraction rejected",
			"requestID", server.RequestID(r.Context()),
			"pid", *req.PID,
			"error", err)
		server.WriteErrorFromErr(w, r, err, "Failed to extract memory measures", nil)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}

	serializer.RespondJSON(w, http.StatusOK, MeasuresResponse{
		PID:            *req.PID,
		MemoryMeasures: ms,
	})
}

// extract runs the extractor, consulting the cache when one is configured.
func (h *Handler) extract(report *memreport.Report, pid int) (measures.Measures, bool, error) {
	if h.cache == nil {
		ms, err := measures.Extract(report, pid)
		return ms, false, err
	}

	key, err := cache.Key(report, pid)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, "failed to derive cache key", err)
	}
	if ms, ok := h.cache.Get(key); ok {
		return ms, true, nil
	}

	ms, err := measures.Extract(report, pid)
	if err != nil {
		return nil, false, err
	}
	h.cache.Set(key, ms)
	return ms, false, nil
}

// decodeRequest reads and validates the request body.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*MeasuresRequest, error) {
	var body io.ReadCloser = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	switch enc := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Encoding"))); enc {
	case "", "identity":
	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid gzip body", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		body = http.MaxBytesReader(w, gz, h.maxBodyBytes)
	default:
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"unsupported content encoding", map[string]any{"encoding": enc})
	}

	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, errors.WrapWithContext(errors.ErrCodePayloadTooLarge,
				"request body too large", err, map[string]any{"limit": maxErr.Limit})
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "request body is empty")
	}

	reader, err := serializer.NewReader(formatFromContentType(r.Header.Get("Content-Type")), bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	var req MeasuresRequest
	if err := reader.Deserialize(&req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid request body", err)
	}

	if req.PID == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "pid is required")
	}
	if !req.MemoryReport.Recognizable() {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"memory_report must carry version, reports and hasMozMallocUsableSize")
	}
	return &req, nil
}

// formatFromContentType picks the body decoder. Anything that is not YAML
// is decoded as JSON.
func formatFromContentType(contentType string) serializer.Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return serializer.FormatJSON
	}
	if strings.Contains(mediaType, "yaml") {
		return serializer.FormatYAML
	}
	return serializer.FormatJSON
}
