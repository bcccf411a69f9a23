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

// Package memreport defines the memory report captured alongside a crash.
//
// A memory report is a flat list of reporter records, each naming the process
// it was measured in, a slash-delimited path such as "explicit/images/content",
// a kind (heap, non-heap, other), a unit and an amount. A single report can
// carry records for several processes, each tagged with a "(pid N)" marker in
// its process label.
//
// The wire form is JSON, usually gzip-compressed:
//
//	{
//	  "version": 1,
//	  "hasMozMallocUsableSize": true,
//	  "reports": [
//	    {"process": "Main Process (pid 11620)", "path": "resident",
//	     "kind": 0, "units": 0, "amount": 104857600, "description": "..."}
//	  ]
//	}
//
// Types in this package are read-only inputs; nothing here validates record
// contents beyond decoding. See package measures for extraction.
package memreport
