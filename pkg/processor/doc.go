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

// Package processor runs the rule pipeline over processed crashes.
//
// A Processor applies its rules in order. For each rule the predicate is
// evaluated first and the action only runs when it accepts the crash. A rule
// whose action fails is logged and noted on the Result; the remaining rules
// still run.
//
// Usage:
//
//	p := processor.New(processor.WithRules(rule.NewMemoryReportExtraction()))
//	res := p.Process(ctx, crash)
//
// ProcessAll fans out over many crashes with a bounded number of workers and
// returns results in input order:
//
//	results, err := p.ProcessAll(ctx, crashes)
package processor
