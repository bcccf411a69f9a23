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
	"fmt"

	"github.com/crashstats/memory-measures/pkg/errors"
)

// Fields named by a ValidationError.
const (
	FieldUnits = "units"
	FieldKind  = "kind"
)

// ValidationError reports a record that breaks the structural rules of the
// report: a required key is absent, or an explicit/ record has non-byte units
// or a kind other than heap/non-heap.
type ValidationError struct {
	Path  string
	Field string
	Value int

	// Missing is set when Field is absent from the record; Value is then zero.
	Missing bool
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return fmt.Sprintf("key %s is missing from a report: %q", e.Field, e.Path)
	}
	return fmt.Sprintf("bad %s for an explicit/ report: %s, %d", e.Field, e.Path, e.Value)
}

// NotFoundError reports that no record in the report belongs to the process.
type NotFoundError struct {
	PID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no measurements found for pid %d", e.PID)
}

func newValidationError(path, field string, value int) error {
	return errors.WrapWithContext(errors.ErrCodeInvalidReport,
		"memory report rejected",
		&ValidationError{Path: path, Field: field, Value: value},
		map[string]any{"path": path, field: value})
}

func newMissingKeyError(path, field string) error {
	return errors.WrapWithContext(errors.ErrCodeInvalidReport,
		"memory report rejected",
		&ValidationError{Path: path, Field: field, Missing: true},
		map[string]any{"path": path, "missing": field})
}

func newNotFoundError(pid int) error {
	return errors.WrapWithContext(errors.ErrCodeNotFound,
		"memory report has no records for process",
		&NotFoundError{PID: pid},
		map[string]any{"pid": pid})
}
