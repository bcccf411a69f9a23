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

package measures

import (
	"sort"
	"strings"
)

// Metric identifies one of the fixed output measures.
type Metric int

// Measured metrics are copied from records whose path equals the metric name.
const (
	GfxTextures Metric = iota
	GhostWindows
	HeapAllocated
	HostObjectURLs
	Private
	Resident
	ResidentUnique
	SystemHeapAllocated
	VsizeMaxContiguous
	Vsize

	measuredCount = iota
)

// Derived metrics are computed from prefix and substring rules or arithmetic.
const (
	Explicit Metric = iota + measuredCount
	HeapOverhead
	HeapUnclassified
	Images
	JSMainRuntime
	TopNoneDetached

	metricCount = iota + measuredCount
)

// Names use dashes, as the reporter paths do. Output keys swap them for underscores.
var metricNames = [metricCount]string{
	GfxTextures:         "gfx-textures",
	GhostWindows:        "ghost-windows",
	HeapAllocated:       "heap-allocated",
	HostObjectURLs:      "host-object-urls",
	Private:             "private",
	Resident:            "resident",
	ResidentUnique:      "resident-unique",
	SystemHeapAllocated: "system-heap-allocated",
	VsizeMaxContiguous:  "vsize-max-contiguous",
	Vsize:               "vsize",
	Explicit:            "explicit",
	HeapOverhead:        "heap-overhead",
	HeapUnclassified:    "heap-unclassified",
	Images:              "images",
	JSMainRuntime:       "js-main-runtime",
	TopNoneDetached:     "top-none-detached",
}

var measuredByPath = func() map[string]Metric {
	m := make(map[string]Metric, measuredCount)
	for i := Metric(0); i < measuredCount; i++ {
		m[metricNames[i]] = i
	}
	return m
}()

// Name returns the dashed reporter name, e.g. "heap-allocated".
func (m Metric) Name() string {
	if m < 0 || m >= metricCount {
		return ""
	}
	return metricNames[m]
}

// Key returns the output key, e.g. "heap_allocated".
func (m Metric) Key() string {
	return normalizeKey(m.Name())
}

// Derived reports whether the metric is computed rather than copied.
func (m Metric) Derived() bool {
	return m >= measuredCount && m < metricCount
}

// String implements fmt.Stringer.
func (m Metric) String() string {
	return m.Key()
}

// MeasuredMetrics returns the metrics copied by exact path match.
func MeasuredMetrics() []Metric {
	out := make([]Metric, 0, measuredCount)
	for i := Metric(0); i < measuredCount; i++ {
		out = append(out, i)
	}
	return out
}

// DerivedMetrics returns the computed metrics.
func DerivedMetrics() []Metric {
	out := make([]Metric, 0, metricCount-measuredCount)
	for i := Metric(measuredCount); i < metricCount; i++ {
		out = append(out, i)
	}
	return out
}

// AllMetrics returns every metric, measured first.
func AllMetrics() []Metric {
	return append(MeasuredMetrics(), DerivedMetrics()...)
}

// Keys returns the sorted output key set produced by every successful extraction.
func Keys() []string {
	keys := make([]string, 0, metricCount)
	for _, m := range AllMetrics() {
		keys = append(keys, m.Key())
	}
	sort.Strings(keys)
	return keys
}

func normalizeKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Measures maps output keys to amounts.
type Measures map[string]int64

// Get returns the value of m.
func (ms Measures) Get(m Metric) int64 {
	return ms[m.Key()]
}
