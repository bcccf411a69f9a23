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

// Package crash defines the processed crash document that rules read and
// annotate.
package crash

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crashstats/memory-measures/pkg/measures"
	"github.com/crashstats/memory-measures/pkg/memreport"
)

// JSONDump is the subset of the minidump analysis output used here.
type JSONDump struct {
	// PID is the id of the crashed process. Nil when the dump did not record it.
	PID *int `json:"pid,omitempty" yaml:"pid,omitempty"`
}

// ProcessedCrash is a crash report as it moves through the rule pipeline.
type ProcessedCrash struct {
	UUID           string            `json:"uuid" yaml:"uuid"`
	JSONDump       *JSONDump         `json:"json_dump,omitempty" yaml:"json_dump,omitempty"`
	MemoryReport   *memreport.Report `json:"memory_report,omitempty" yaml:"memory_report,omitempty"`
	MemoryMeasures measures.Measures `json:"memory_measures,omitempty" yaml:"memory_measures,omitempty"`
}

// PID returns the crashed process id and whether the dump recorded one.
func (c *ProcessedCrash) PID() (int, bool) {
	if c == nil || c.JSONDump == nil || c.JSONDump.PID == nil {
		return 0, false
	}
	return *c.JSONDump.PID, true
}

// ValidateCrashID checks that id is a canonical crash UUID.
func ValidateCrashID(id string) error {
	if id == "" {
		return fmt.Errorf("crash id is empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid crash id %q: %w", id, err)
	}
	if parsed.String() != id {
		return fmt.Errorf("crash id %q is not in canonical form", id)
	}
	return nil
}
