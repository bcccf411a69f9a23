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
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the reporter kind of a record.
type Kind int

// Reporter kinds. Values match the numeric form used in serialized reports.
const (
	KindNonHeap Kind = 0
	KindHeap    Kind = 1
	KindOther   Kind = 2
)

// String returns the reporter kind name.
func (k Kind) String() string {
	switch k {
	case KindNonHeap:
		return "NONHEAP"
	case KindHeap:
		return "HEAP"
	case KindOther:
		return "OTHER"
	default:
		return "KIND(" + strconv.Itoa(int(k)) + ")"
	}
}

// Units is the unit of a record's amount.
type Units int

// Reporter units.
const (
	UnitsBytes           Units = 0
	UnitsCount           Units = 1
	UnitsCountCumulative Units = 2
	UnitsPercentage      Units = 3
)

// String returns the unit name.
func (u Units) String() string {
	switch u {
	case UnitsBytes:
		return "BYTES"
	case UnitsCount:
		return "COUNT"
	case UnitsCountCumulative:
		return "COUNT_CUMULATIVE"
	case UnitsPercentage:
		return "PERCENTAGE"
	default:
		return "UNITS(" + strconv.Itoa(int(u)) + ")"
	}
}

// Keys every serialized record must carry.
const (
	FieldProcess = "process"
	FieldPath    = "path"
	FieldKind    = "kind"
	FieldUnits   = "units"
	FieldAmount  = "amount"
)

// Record is a single reporter measurement.
//
// A decoded record remembers which required keys were absent, since a zero
// kind or unit is a valid value. Records built in code are complete.
type Record struct {
	Process     string `json:"process" yaml:"process"`
	Path        string `json:"path" yaml:"path"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Units       Units  `json:"units" yaml:"units"`
	Amount      int64  `json:"amount" yaml:"amount"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	missing []string
}

// recordWire is the serialized form of a Record.
type recordWire struct {
	Process     *string `json:"process,omitempty" yaml:"process,omitempty"`
	Path        *string `json:"path,omitempty" yaml:"path,omitempty"`
	Kind        *Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Units       *Units  `json:"units,omitempty" yaml:"units,omitempty"`
	Amount      *int64  `json:"amount,omitempty" yaml:"amount,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Missing returns the required keys absent from the decoded record, in
// field order.
func (r *Record) Missing() []string {
	return r.missing
}

// IsMissing reports whether the decoded record lacked key.
func (r *Record) IsMissing(key string) bool {
	for _, k := range r.missing {
		if k == key {
			return true
		}
	}
	return false
}

func (r *Record) fromWire(w *recordWire) {
	*r = Record{Description: w.Description}
	if w.Process != nil {
		r.Process = *w.Process
	} else {
		r.missing = append(r.missing, FieldProcess)
	}
	if w.Path != nil {
		r.Path = *w.Path
	} else {
		r.missing = append(r.missing, FieldPath)
	}
	if w.Kind != nil {
		r.Kind = *w.Kind
	} else {
		r.missing = append(r.missing, FieldKind)
	}
	if w.Units != nil {
		r.Units = *w.Units
	} else {
		r.missing = append(r.missing, FieldUnits)
	}
	if w.Amount != nil {
		r.Amount = *w.Amount
	} else {
		r.missing = append(r.missing, FieldAmount)
	}
}

// toWire drops the keys that were absent on decode so a round trip keeps
// them absent.
func (r Record) toWire() recordWire {
	w := recordWire{
		Process:     &r.Process,
		Path:        &r.Path,
		Kind:        &r.Kind,
		Units:       &r.Units,
		Amount:      &r.Amount,
		Description: r.Description,
	}
	for _, key := range r.missing {
		switch key {
		case FieldProcess:
			w.Process = nil
		case FieldPath:
			w.Path = nil
		case FieldKind:
			w.Kind = nil
		case FieldUnits:
			w.Units = nil
		case FieldAmount:
			w.Amount = nil
		}
	}
	return w
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.fromWire(&w)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toWire())
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var w recordWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	r.fromWire(&w)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r Record) MarshalYAML() (any, error) {
	return r.toWire(), nil
}

// Report is a decoded memory report.
// Version and HasMozMallocUsableSize are pointers so that an absent field can
// be told apart from a zero value.
type Report struct {
	Version                *int     `json:"version,omitempty" yaml:"version,omitempty"`
	HasMozMallocUsableSize *bool    `json:"hasMozMallocUsableSize,omitempty" yaml:"hasMozMallocUsableSize,omitempty"`
	Reports                []Record `json:"reports" yaml:"reports"`
}

// PIDMarker returns the substring that tags records of the given process.
func PIDMarker(pid int) string {
	return fmt.Sprintf("(pid %d)", pid)
}

// BelongsTo reports whether the record's process label carries marker,
// as returned by PIDMarker.
func (r *Record) BelongsTo(marker string) bool {
	return strings.Contains(r.Process, marker)
}

// Recognizable reports whether the report carries the fields every known
// report format has: a version, the malloc capability flag and a record list.
func (r *Report) Recognizable() bool {
	return r != nil &&
		r.Version != nil &&
		r.HasMozMallocUsableSize != nil &&
		r.Reports != nil
}

// Processes returns the distinct process labels in the order they first appear.
func (r *Report) Processes() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range r.Reports {
		p := r.Reports[i].Process
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
