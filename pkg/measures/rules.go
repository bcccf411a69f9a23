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
	"strings"

	"github.com/crashstats/memory-measures/pkg/memreport"
)

const (
	explicitPrefix      = "explicit/"
	jsMainRuntimePrefix = "js-main-runtime/"
)

// pathRule attributes a record to a bucket when match accepts its path.
type pathRule struct {
	name  string
	match func(path string) bool
	apply func(acc *accumulator, rec *memreport.Record) error
}

// explicitRule adds a record's amount to metric when match accepts its path.
type explicitRule struct {
	name   string
	match  func(path string) bool
	metric Metric
}

func hasPrefix(prefix string) func(string) bool {
	return func(path string) bool { return strings.HasPrefix(path, prefix) }
}

func contains(substr string) func(string) bool {
	return func(path string) bool { return strings.Contains(path, substr) }
}

// explicitRules run on every validated explicit/ record. They are independent:
// one record may feed several of them.
var explicitRules = []explicitRule{
	{name: "images", match: hasPrefix("explicit/images/"), metric: Images},
	{name: "top-none-detached", match: contains("top(none)/detached"), metric: TopNoneDetached},
	{name: "heap-overhead", match: hasPrefix("explicit/heap-overhead/"), metric: HeapOverhead},
}

// pathRules are tried in order; the first match owns the record.
// Records that match nothing are dropped.
var pathRules = []pathRule{
	{name: "explicit", match: hasPrefix(explicitPrefix), apply: applyExplicit},
	{name: "js-main-runtime", match: hasPrefix(jsMainRuntimePrefix), apply: addTo(JSMainRuntime)},
	{name: "measured", match: isMeasuredPath, apply: applyMeasured},
}

func isMeasuredPath(path string) bool {
	_, ok := measuredByPath[path]
	return ok
}

func addTo(m Metric) func(*accumulator, *memreport.Record) error {
	return func(acc *accumulator, rec *memreport.Record) error {
		acc.values[m] += rec.Amount
		return nil
	}
}

func applyMeasured(acc *accumulator, rec *memreport.Record) error {
	acc.values[measuredByPath[rec.Path]] += rec.Amount
	return nil
}

func applyExplicit(acc *accumulator, rec *memreport.Record) error {
	if rec.Units != memreport.UnitsBytes {
		return newValidationError(rec.Path, FieldUnits, int(rec.Units))
	}

	switch rec.Kind {
	case memreport.KindHeap:
		acc.explicitHeap += rec.Amount
	case memreport.KindNonHeap:
		acc.explicitNonHeap += rec.Amount
	default:
		return newValidationError(rec.Path, FieldKind, int(rec.Kind))
	}

	for _, r := range explicitRules {
		if r.match(rec.Path) {
			acc.values[r.metric] += rec.Amount
		}
	}
	return nil
}
