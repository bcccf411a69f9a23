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

// Package header provides the envelope fields shared by the documents the
// CLI emits.
//
// Documents embed Header inline:
//
//	type result struct {
//	    header.Header `json:",inline" yaml:",inline"`
//	    PID int       `json:"pid" yaml:"pid"`
//	}
//
//	r := result{Header: header.New(header.KindMemoryMeasures, version), PID: 42}
//
// which serializes as:
//
//	kind: MemoryMeasures
//	apiVersion: memmeasures.crashstats.dev/v1
//	metadata:
//	  timestamp: "2026-01-01T12:00:00Z"
//	  version: v1.0.0
//	pid: 42
package header
