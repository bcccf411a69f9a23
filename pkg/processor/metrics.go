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

package processor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	crashDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "memmeasures_crash_processing_duration_seconds",
			Help:    "Time taken to run the rule pipeline over one crash",
			Buckets: prometheus.DefBuckets,
		},
	)

	ruleFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memmeasures_rule_failures_total",
			Help: "Rule actions that returned an error or panicked",
		},
		[]string{"rule"},
	)
)
