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
	"github.com/crashstats/memory-measures/pkg/memreport"
)

// accumulator holds the running totals of one extraction.
type accumulator struct {
	values          [metricCount]int64
	explicitHeap    int64
	explicitNonHeap int64
	matched         bool
}

// Extract reduces the records of process pid in report to the fixed set of
// measures.
//
// It fails with a NotFoundError when no record belongs to pid and with a
// ValidationError on the first record without a process key, the first record
// of pid without a path, kind, units or amount key, or the first explicit/
// record of pid whose units are not bytes or whose kind is neither heap nor
// non-heap. Both come wrapped in a
// StructuredError; use errors.As to reach them. No partial result is returned
// on error.
//
// heap_unclassified may come out negative when the reporters disagree with the
// allocator; the value is returned as is.
func Extract(report *memreport.Report, pid int) (Measures, error) {
	var acc accumulator

	if report != nil {
		marker := memreport.PIDMarker(pid)
		for i := range report.Reports {
			rec := &report.Reports[i]
			if rec.IsMissing(memreport.FieldProcess) {
				return nil, newMissingKeyError(rec.Path, memreport.FieldProcess)
			}
			if !rec.BelongsTo(marker) {
				continue
			}
			acc.matched = true
			if missing := rec.Missing(); len(missing) > 0 {
				return nil, newMissingKeyError(rec.Path, missing[0])
			}
			if err := acc.add(rec); err != nil {
				return nil, err
			}
		}
	}

	if !acc.matched {
		return nil, newNotFoundError(pid)
	}

	acc.derive()
	return acc.measures(), nil
}

func (acc *accumulator) add(rec *memreport.Record) error {
	for _, r := range pathRules {
		if r.match(rec.Path) {
			return r.apply(acc, rec)
		}
	}
	return nil
}

func (acc *accumulator) derive() {
	heapAllocated := acc.values[HeapAllocated]
	acc.values[HeapUnclassified] = heapAllocated - acc.explicitHeap
	acc.values[Explicit] = heapAllocated + acc.explicitNonHeap
}

func (acc *accumulator) measures() Measures {
	out := make(Measures, metricCount)
	for m := Metric(0); m < metricCount; m++ {
		out[m.Key()] = acc.values[m]
	}
	return out
}
