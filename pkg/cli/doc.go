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

// Package cli implements the memmeasures command-line interface.
//
// # Commands
//
// extract - measure one process of a memory report:
//
//	memmeasures extract --pid 11620 [--format yaml|json|table] [--output FILE] memory_report.json.gz
//
// process - run the rule pipeline over processed crash documents:
//
//	memmeasures process [--concurrency 8] [--format ...] [--output FILE] crash.json...
//
// serve - run the HTTP extraction service:
//
//	memmeasures serve [--port 8080]
//
// # Global Flags
//
//	--log-level    debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// Inputs may be local files or HTTP(S) URLs; gzip-compressed inputs are
// detected automatically. Table output groups the digits of byte counts.
//
// # Environment Variables
//
//	MEMMEASURES_LOG_LEVEL, LOG_LEVEL  logging verbosity
//	MEMMEASURES_FORMAT                default output format
//	MEMMEASURES_OUTPUT                default output file
//	MEMMEASURES_PID                   default --pid for extract
//	MEMMEASURES_CONCURRENCY           default --concurrency for process
//
// # Exit Codes
//
//	0  Success
//	1  Invalid arguments, unreadable input or a report that cannot be measured
package cli
