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
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	cerrors "github.com/crashstats/memory-measures/pkg/errors"
	"github.com/crashstats/memory-measures/pkg/memreport"
)

func newReport(records ...memreport.Record) *memreport.Report {
	return &memreport.Report{
		Version:                ptr.To(1),
		HasMozMallocUsableSize: ptr.To(true),
		Reports:                records,
	}
}

func rec(pid, path string, kind memreport.Kind, amount int64) memreport.Record {
	return memreport.Record{
		Process: "Main Process (pid " + pid + ")",
		Path:    path,
		Kind:    kind,
		Units:   memreport.UnitsBytes,
		Amount:  amount,
	}
}

func assertOnly(t *testing.T, got Measures, want map[Metric]int64) {
	t.Helper()
	require.ElementsMatch(t, Keys(), keysOf(got))
	for _, m := range AllMetrics() {
		assert.Equal(t, want[m], got.Get(m), "metric %s", m)
	}
}

func keysOf(ms Measures) []string {
	keys := make([]string, 0, len(ms))
	for k := range ms {
		keys = append(keys, k)
	}
	return keys
}

func TestExtract_SingleResident(t *testing.T) {
	report := newReport(memreport.Record{
		Process: "(pid 7)",
		Path:    "resident",
		Kind:    memreport.KindNonHeap,
		Units:   memreport.UnitsBytes,
		Amount:  1000,
	})

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assertOnly(t, got, map[Metric]int64{Resident: 1000})
}

func TestExtract_HeapAllocatedAndImages(t *testing.T) {
	report := newReport(
		// Not a measured name: measured names match exactly, with no prefix.
		rec("7", "explicit/heap-allocated", memreport.KindNonHeap, 0),
		rec("7", "heap-allocated", memreport.KindOther, 500),
		rec("7", "explicit/images/foo", memreport.KindHeap, 200),
	)

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assertOnly(t, got, map[Metric]int64{
		HeapAllocated:    500,
		Images:           200,
		Explicit:         500,
		HeapUnclassified: 300,
	})
}

func TestExtract_BadUnits(t *testing.T) {
	bad := rec("7", "explicit/foo", memreport.KindHeap, 10)
	bad.Units = memreport.UnitsCount
	report := newReport(rec("7", "resident", memreport.KindNonHeap, 1), bad)

	got, err := Extract(report, 7)
	require.Error(t, err)
	assert.Nil(t, got)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "explicit/foo", verr.Path)
	assert.Equal(t, FieldUnits, verr.Field)
	assert.Equal(t, int(memreport.UnitsCount), verr.Value)
	assert.Equal(t, cerrors.ErrCodeInvalidReport, cerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "bad units for an explicit/ report: explicit/foo, 1")
}

func TestExtract_BadKind(t *testing.T) {
	for _, kind := range []memreport.Kind{memreport.KindOther, memreport.Kind(-1), memreport.Kind(42)} {
		t.Run(kind.String(), func(t *testing.T) {
			report := newReport(rec("7", "explicit/js/zone", kind, 10))

			got, err := Extract(report, 7)
			require.Error(t, err)
			assert.Nil(t, got)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "explicit/js/zone", verr.Path)
			assert.Equal(t, FieldKind, verr.Field)
			assert.Equal(t, int(kind), verr.Value)
		})
	}
}

func TestExtract_UnitsCheckedBeforeKind(t *testing.T) {
	bad := rec("7", "explicit/foo", memreport.KindOther, 10)
	bad.Units = memreport.UnitsPercentage

	_, err := Extract(newReport(bad), 7)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldUnits, verr.Field)
}

func TestExtract_FirstBadRecordWins(t *testing.T) {
	first := rec("7", "explicit/first", memreport.KindOther, 1)
	second := rec("7", "explicit/second", memreport.KindHeap, 1)
	second.Units = memreport.UnitsCount

	_, err := Extract(newReport(first, second), 7)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "explicit/first", verr.Path)
}

func TestExtract_NonExplicitRecordsAreNotValidated(t *testing.T) {
	r := rec("7", "js-main-runtime/gc-heap", memreport.KindOther, 30)
	r.Units = memreport.UnitsCount
	other := rec("7", "ghost-windows", memreport.KindOther, 2)
	other.Units = memreport.UnitsCount

	got, err := Extract(newReport(r, other), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.Get(JSMainRuntime))
	assert.Equal(t, int64(2), got.Get(GhostWindows))
}

func TestExtract_OtherProcessesSkipped(t *testing.T) {
	report := newReport(
		rec("8", "resident", memreport.KindNonHeap, 9999),
		rec("7", "resident", memreport.KindNonHeap, 1000),
	)

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assertOnly(t, got, map[Metric]int64{Resident: 1000})
}

func TestExtract_OtherProcessBadRecordIgnored(t *testing.T) {
	bad := rec("8", "explicit/foo", memreport.KindOther, 1)
	bad.Units = memreport.UnitsCount
	report := newReport(bad, rec("7", "vsize", memreport.KindNonHeap, 5))

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Get(Vsize))
}

func TestExtract_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		report *memreport.Report
	}{
		{"nil report", nil},
		{"no records", newReport()},
		{"only other pids", newReport(rec("70", "resident", memreport.KindNonHeap, 1), rec("17", "vsize", memreport.KindNonHeap, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.report, 7)
			require.Error(t, err)
			assert.Nil(t, got)

			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, 7, nf.PID)
			assert.Equal(t, cerrors.ErrCodeNotFound, cerrors.CodeOf(err))
		})
	}
}

func TestExtract_UnknownPathMatchedStillCounts(t *testing.T) {
	report := newReport(rec("7", "some-future-reporter/thing", memreport.KindNonHeap, 77))

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assertOnly(t, got, map[Metric]int64{})
}

func TestExtract_NegativeHeapUnclassified(t *testing.T) {
	report := newReport(
		rec("7", "heap-allocated", memreport.KindNonHeap, 100),
		rec("7", "explicit/dom/a", memreport.KindHeap, 150),
		rec("7", "explicit/gfx/b", memreport.KindNonHeap, 40),
	)

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(-50), got.Get(HeapUnclassified))
	assert.Equal(t, int64(140), got.Get(Explicit))
}

func TestExtract_DerivedBuckets(t *testing.T) {
	report := newReport(
		rec("7", "explicit/images/content/raster", memreport.KindHeap, 10),
		rec("7", "explicit/window-objects/top(none)/detached/window(about:blank)", memreport.KindHeap, 20),
		rec("7", "explicit/heap-overhead/bin-unused", memreport.KindHeap, 30),
		rec("7", "explicit/heap-overhead/page-cache", memreport.KindNonHeap, 5),
		rec("7", "js-main-runtime/compartments", memreport.KindNonHeap, 40),
		rec("7", "js-main-runtime/gc-heap", memreport.KindNonHeap, 2),
		rec("7", "js-main-runtime", memreport.KindNonHeap, 1000),
		rec("7", "heap-allocated", memreport.KindNonHeap, 100),
		rec("7", "gfx-textures", memreport.KindNonHeap, 1),
		rec("7", "gfx-textures", memreport.KindNonHeap, 2),
	)

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assertOnly(t, got, map[Metric]int64{
		Images:           10,
		TopNoneDetached:  20,
		HeapOverhead:     35,
		JSMainRuntime:    42,
		HeapAllocated:    100,
		GfxTextures:      3,
		HeapUnclassified: 100 - 60,
		Explicit:         100 + 5,
	})
}

func TestExtract_RecordFeedsSeveralExplicitBuckets(t *testing.T) {
	report := newReport(rec("7", "explicit/images/top(none)/detached/x", memreport.KindNonHeap, 8))

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Get(Images))
	assert.Equal(t, int64(8), got.Get(TopNoneDetached))
	assert.Equal(t, int64(8), got.Get(Explicit))
}

func TestExtract_AllMeasuredNames(t *testing.T) {
	var records []memreport.Record
	want := map[Metric]int64{}
	for i, m := range MeasuredMetrics() {
		amount := int64(i + 1)
		records = append(records, rec("7", m.Name(), memreport.KindNonHeap, amount))
		want[m] = amount
	}
	want[HeapUnclassified] = want[HeapAllocated]
	want[Explicit] = want[HeapAllocated]

	got, err := Extract(newReport(records...), 7)
	require.NoError(t, err)
	assertOnly(t, got, want)
}

func TestExtract_Idempotent(t *testing.T) {
	report := newReport(
		rec("7", "heap-allocated", memreport.KindNonHeap, 500),
		rec("7", "explicit/images/foo", memreport.KindHeap, 200),
		rec("9", "resident", memreport.KindNonHeap, 3),
	)

	first, err := Extract(report, 7)
	require.NoError(t, err)
	second, err := Extract(report, 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The input is not mutated.
	assert.Len(t, report.Reports, 3)
	assert.Equal(t, int64(200), report.Reports[1].Amount)
}

func TestExtract_DoesNotMatchPIDPrefix(t *testing.T) {
	report := newReport(rec("77", "resident", memreport.KindNonHeap, 1))

	_, err := Extract(report, 7)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func decodeReport(t *testing.T, records string) *memreport.Report {
	t.Helper()
	var r memreport.Report
	doc := `{"version": 1, "hasMozMallocUsableSize": true, "reports": [` + records + `]}`
	require.NoError(t, json.Unmarshal([]byte(doc), &r))
	return &r
}

func TestExtract_MissingKey(t *testing.T) {
	tests := []struct {
		name    string
		records string
		path    string
		field   string
	}{
		{
			name: "explicit without kind and units",
			records: `{"process": "Main (pid 7)", "path": "heap-allocated", "kind": 2, "units": 0, "amount": 500},
				{"process": "Main (pid 7)", "path": "explicit/foo", "amount": 300}`,
			path:  "explicit/foo",
			field: memreport.FieldKind,
		},
		{
			name:    "measured without amount",
			records: `{"process": "Main (pid 7)", "path": "resident", "kind": 0, "units": 0}`,
			path:    "resident",
			field:   memreport.FieldAmount,
		},
		{
			name:    "without path",
			records: `{"process": "Main (pid 7)", "kind": 0, "units": 0, "amount": 1}`,
			field:   memreport.FieldPath,
		},
		{
			name: "other process without process key",
			records: `{"process": "Main (pid 7)", "path": "resident", "kind": 0, "units": 0, "amount": 1},
				{"path": "vsize", "kind": 0, "units": 0, "amount": 1}`,
			path:  "vsize",
			field: memreport.FieldProcess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(decodeReport(t, tt.records), 7)
			require.Error(t, err)
			assert.Nil(t, got)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Missing)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.path, verr.Path)
			assert.Equal(t, cerrors.ErrCodeInvalidReport, cerrors.CodeOf(err))
			assert.Contains(t, err.Error(), "key "+tt.field+" is missing from a report")
		})
	}
}

func TestExtract_MissingKeyOnOtherProcessIgnored(t *testing.T) {
	report := decodeReport(t, `{"process": "Main (pid 7)", "path": "resident", "kind": 0, "units": 0, "amount": 10},
		{"process": "Web Content (pid 8)", "path": "explicit/foo", "amount": 5}`)

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Get(Resident))
}

func TestExtract_DecodedZeroKindAndUnitsAccepted(t *testing.T) {
	report := decodeReport(t, `{"process": "Main (pid 7)", "path": "explicit/foo", "kind": 0, "units": 0, "amount": 300}`)

	got, err := Extract(report, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(300), got.Get(Explicit))
}
