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

// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidReport,
//	    "bad units for an explicit/ report",
//	    cause,
//	    map[string]any{
//	        "path":  "explicit/heap-overhead/bin-unused",
//	        "units": 1,
//	    },
//	)
//
// CodeOf recovers the code from any wrapped chain, and HTTPStatus maps it to
// the status used by the API server.
package errors
