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

package memreport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"
)

const sampleJSON = `{
  "version": 1,
  "hasMozMallocUsableSize": true,
  "reports": [
    {"process": "Main Process (pid 11620)", "path": "resident", "kind": 0, "units": 0, "amount": 1000, "description": "RSS"},
    {"process": "Web Content (pid 11700)", "path": "explicit/images/foo", "kind": 1, "units": 0, "amount": 200},
    {"process": "Main Process (pid 11620)", "path": "explicit/weird", "kind": 7, "units": 3, "amount": 5}
  ]
}`

func TestReport_UnmarshalJSON(t *testing.T) {
	var r Report
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &r))

	require.NotNil(t, r.Version)
	assert.Equal(t, 1, *r.Version)
	require.NotNil(t, r.HasMozMallocUsableSize)
	assert.True(t, *r.HasMozMallocUsableSize)
	require.Len(t, r.Reports, 3)

	assert.Equal(t, "resident", r.Reports[0].Path)
	assert.Equal(t, KindNonHeap, r.Reports[0].Kind)
	assert.Equal(t, UnitsBytes, r.Reports[0].Units)
	assert.Equal(t, int64(1000), r.Reports[0].Amount)
	assert.Equal(t, "RSS", r.Reports[0].Description)

	// Unknown kinds and units survive decoding.
	assert.Equal(t, Kind(7), r.Reports[2].Kind)
	assert.Equal(t, UnitsPercentage, r.Reports[2].Units)
}

func TestReport_UnmarshalYAML(t *testing.T) {
	doc := `
version: 1
hasMozMallocUsableSize: false
reports:
  - process: "(pid 7)"
    path: heap-allocated
    kind: 1
    units: 0
    amount: 500
`
	var r Report
	require.NoError(t, yaml.Unmarshal([]byte(doc), &r))
	assert.True(t, r.Recognizable())
	require.Len(t, r.Reports, 1)
	assert.Equal(t, KindHeap, r.Reports[0].Kind)
	assert.Equal(t, int64(500), r.Reports[0].Amount)
}

func TestReport_Recognizable(t *testing.T) {
	tests := []struct {
		name   string
		report *Report
		want   bool
	}{
		{"nil", nil, false},
		{"empty", &Report{}, false},
		{"missing version", &Report{HasMozMallocUsableSize: ptr.To(true), Reports: []Record{}}, false},
		{"missing flag", &Report{Version: ptr.To(1), Reports: []Record{}}, false},
		{"missing reports", &Report{Version: ptr.To(1), HasMozMallocUsableSize: ptr.To(true)}, false},
		{"complete with empty list", &Report{Version: ptr.To(1), HasMozMallocUsableSize: ptr.To(false), Reports: []Record{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Recognizable())
		})
	}
}

func TestReport_RecognizableFromJSON(t *testing.T) {
	var missing Report
	require.NoError(t, json.Unmarshal([]byte(`{"version": 1, "hasMozMallocUsableSize": true}`), &missing))
	assert.False(t, missing.Recognizable())

	var empty Report
	require.NoError(t, json.Unmarshal([]byte(`{"version": 1, "hasMozMallocUsableSize": true, "reports": []}`), &empty))
	assert.True(t, empty.Recognizable())
}

func TestRecord_BelongsTo(t *testing.T) {
	rec := Record{Process: "Web Content (pid 117)"}

	assert.True(t, rec.BelongsTo(PIDMarker(117)))
	assert.False(t, rec.BelongsTo(PIDMarker(11)))
	assert.False(t, rec.BelongsTo(PIDMarker(1170)))
}

func TestPIDMarker(t *testing.T) {
	assert.Equal(t, "(pid 42)", PIDMarker(42))
}

func TestKindAndUnitsString(t *testing.T) {
	assert.Equal(t, "HEAP", KindHeap.String())
	assert.Equal(t, "NONHEAP", KindNonHeap.String())
	assert.Equal(t, "OTHER", KindOther.String())
	assert.Equal(t, "KIND(9)", Kind(9).String())
	assert.Equal(t, "BYTES", UnitsBytes.String())
	assert.Equal(t, "COUNT", UnitsCount.String())
	assert.Equal(t, "UNITS(-1)", Units(-1).String())
}

func TestReport_Processes(t *testing.T) {
	var r Report
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &r))
	assert.Equal(t, []string{"Main Process (pid 11620)", "Web Content (pid 11700)"}, r.Processes())

	var nilReport *Report
	assert.Nil(t, nilReport.Processes())
}

func TestRecord_Missing(t *testing.T) {
	var r Report
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &r))
	for i := range r.Reports {
		assert.Empty(t, r.Reports[i].Missing())
	}

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"process": "Main (pid 7)", "path": "explicit/foo", "amount": 300}`), &rec))
	assert.Equal(t, []string{FieldKind, FieldUnits}, rec.Missing())
	assert.True(t, rec.IsMissing(FieldKind))
	assert.False(t, rec.IsMissing(FieldAmount))
	assert.Equal(t, int64(300), rec.Amount)

	var fromYAML Record
	require.NoError(t, yaml.Unmarshal([]byte("path: resident\nkind: 0\nunits: 0\namount: 1\n"), &fromYAML))
	assert.Equal(t, []string{FieldProcess}, fromYAML.Missing())

	built := Record{Process: "(pid 1)", Path: "resident"}
	assert.Empty(t, built.Missing())
}

func TestRecord_MarshalKeepsAbsentKeysAbsent(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"process": "Main (pid 7)", "path": "explicit/foo", "amount": 300}`), &rec))

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"process": "Main (pid 7)", "path": "explicit/foo", "amount": 300}`, string(data))

	var again Record
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, rec.Missing(), again.Missing())

	out, err := yaml.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "kind")

	complete, err := json.Marshal(Record{Process: "(pid 1)", Path: "resident"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"process": "(pid 1)", "path": "resident", "kind": 0, "units": 0, "amount": 0}`, string(complete))
}
