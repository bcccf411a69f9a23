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

// Package logging provides structured logging utilities for the memory-measures
// CLI and API server.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so that the CLI, the rule processor and the API server all log the same way.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("memmeasuresd", version)
//	    slog.Info("processing crash", "uuid", crashID)
//	}
//
// Setting an explicit log level (the CLI does this from --log-level):
//
//	logging.SetDefaultStructuredLoggerWithLevel("memmeasures", version, "debug")
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "Unable to extract measurements from memory report",
//	    "module": "memmeasures",
//	    "version": "v1.0.0",
//	    "error": "[NOT_FOUND] no measurements found for pid 11620"
//	}
//
// Debug logs include a "source" object with function, file and line.
package logging
