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

// Package api wires the memory measures HTTP API onto pkg/server.
//
// Usage:
//
//	if err := api.Serve(); err != nil {
//	    log.Fatalf("server error: %v", err)
//	}
//
// # Endpoints
//
//	POST /v1/measures
//
// Request body, JSON or YAML by Content-Type, optionally with
// Content-Encoding: gzip:
//
//	{"pid": 11620, "memory_report": {"version": 1, "hasMozMallocUsableSize": true, "reports": [...]}}
//
// Responses:
//
//	200 {"pid": 11620, "memory_measures": {"explicit": ..., "resident": ..., ...}}
//	400 INVALID_REQUEST      malformed body, missing pid or unrecognized report
//	404 NOT_FOUND            no record belongs to the process
//	405 METHOD_NOT_ALLOWED   anything but POST
//	413 PAYLOAD_TOO_LARGE    body beyond MAX_BODY_BYTES
//	422 INVALID_REPORT       an explicit/ record with non-byte units or an unknown kind
//
// Results are cached by a digest of (pid, report); the X-Cache response
// header reports HIT or MISS.
package api
