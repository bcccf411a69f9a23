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

// Package serializer reads memory reports and processed crashes, and writes
// extraction results.
//
// Supported formats:
//   - JSON: Machine-readable structured data with proper indentation
//   - YAML: Human-readable configuration format
//   - Table: Flattened FIELD/VALUE listing with grouped digits (write-only)
//
// Inputs may be local paths or HTTP(S) URLs, and may be gzip-compressed.
// Compression is detected from the content, not the file name, so
// "memory_report.json.gz" and a gzip body served as "report.json" both work.
//
// Reading:
//
//	report, err := serializer.FromFile[memreport.Report]("memory_report.json.gz")
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "")
//	defer w.Close()
//	if err := w.Serialize(ctx, measures); err != nil {
//		return err
//	}
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
package serializer
