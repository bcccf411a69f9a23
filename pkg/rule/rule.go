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

package rule

import (
	"context"

	"github.com/crashstats/memory-measures/pkg/crash"
)

// Rule transforms a processed crash.
type Rule interface {
	// Name identifies the rule in logs and notes.
	Name() string

	// Predicate reports whether Action should run for c.
	Predicate(c *crash.ProcessedCrash) bool

	// Action annotates c. An error means the rule itself broke, not that the
	// crash data was unusable.
	Action(ctx context.Context, c *crash.ProcessedCrash) error
}
