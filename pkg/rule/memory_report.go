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

package rule

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/crashstats/memory-measures/pkg/crash"
	"github.com/crashstats/memory-measures/pkg/errors"
	"github.com/crashstats/memory-measures/pkg/measures"
)

// MemoryReportExtraction reduces the crash's memory report to
// memory_measures for the crashed process.
type MemoryReportExtraction struct{}

// NewMemoryReportExtraction returns the memory report extraction rule.
func NewMemoryReportExtraction() *MemoryReportExtraction {
	return &MemoryReportExtraction{}
}

// Name implements Rule.
func (r *MemoryReportExtraction) Name() string {
	return "MemoryReportExtraction"
}

// Predicate accepts crashes with a pid and a memory report carrying a
// version, a record list and the malloc capability flag.
func (r *MemoryReportExtraction) Predicate(c *crash.ProcessedCrash) bool {
	if _, ok := c.PID(); !ok {
		extractionsTotal.WithLabelValues(outcomeSkipped).Inc()
		return false
	}
	if !c.MemoryReport.Recognizable() {
		extractionsTotal.WithLabelValues(outcomeSkipped).Inc()
		return false
	}
	return true
}

// Action stores the extracted measures on c. Extraction failures are logged
// at INFO and leave memory_measures unset.
func (r *MemoryReportExtraction) Action(_ context.Context, c *crash.ProcessedCrash) error {
	pid, _ := c.PID()

	start := time.Now()
	ms, err := measures.Extract(c.MemoryReport, pid)
	extractionDuration.Observe(time.Since(start).Seconds())
	recordsScanned.Observe(float64(len(c.MemoryReport.Reports)))

	if err != nil {
		extractionsTotal.WithLabelValues(outcomeFor(err)).Inc()
		slog.Info("Unable to extract measurements from memory report",
			"uuid", c.UUID,
			"pid", pid,
			"error", err)
		return nil
	}

	extractionsTotal.WithLabelValues(outcomeSuccess).Inc()
	c.MemoryMeasures = ms
	return nil
}

func outcomeFor(err error) string {
	var verr *measures.ValidationError
	var nf *measures.NotFoundError
	switch {
	case stderrors.As(err, &verr):
		return outcomeInvalidReport
	case stderrors.As(err, &nf):
		return outcomeNotFound
	case errors.CodeOf(err) == errors.ErrCodeInvalidReport:
		return outcomeInvalidReport
	default:
		return outcomeError
	}
}
