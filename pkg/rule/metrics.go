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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess       = "success"
	outcomeInvalidReport = "invalid_report"
	outcomeNotFound      = "not_found"
	outcomeSkipped       = "skipped"
	outcomeError         = "error"
)

var (
	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memmeasures_extractions_total",
			Help: "Memory report extractions by outcome",
		},
		[]string{"outcome"}, // success, invalid_report, not_found, skipped, error
	)

	extractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "memmeasures_extraction_duration_seconds",
			Help:    "Time taken to extract measures from one memory report",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	recordsScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "memmeasures_records_scanned",
			Help:    "Number of records in memory reports passed to the extractor",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		},
	)
)
