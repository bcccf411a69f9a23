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

// Package rule holds the processing rules applied to a crash.
//
// A Rule is a predicate/action pair: the processor calls Action only when
// Predicate accepts the crash. Rules annotate the crash in place and treat
// per-crash data problems as soft failures: they log and leave the crash
// without the field they would have added.
package rule
