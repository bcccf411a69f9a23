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

package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crashstats/memory-measures/pkg/crash"
	"github.com/crashstats/memory-measures/pkg/defaults"
	"github.com/crashstats/memory-measures/pkg/errors"
	"github.com/crashstats/memory-measures/pkg/rule"
)

// Result is the outcome of running the pipeline over one crash.
type Result struct {
	// Crash is the annotated crash.
	Crash *crash.ProcessedCrash `json:"crash" yaml:"crash"`

	// Notes lists rule failures encountered while processing.
	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Option configures a Processor.
type Option func(*Processor)

// WithRules appends rules to the pipeline.
func WithRules(rules ...rule.Rule) Option {
	return func(p *Processor) {
		p.rules = append(p.rules, rules...)
	}
}

// WithConcurrency sets the maximum number of crashes processed at once by
// ProcessAll. Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// Processor applies an ordered list of rules to crashes.
type Processor struct {
	rules       []rule.Rule
	concurrency int
}

// New returns a Processor. Without WithRules it carries the default rule set.
func New(opts ...Option) *Processor {
	p := &Processor{
		concurrency: defaults.ProcessConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if len(p.rules) == 0 {
		p.rules = DefaultRules()
	}
	return p
}

// DefaultRules returns the rules run when none are configured.
func DefaultRules() []rule.Rule {
	return []rule.Rule{
		rule.NewMemoryReportExtraction(),
	}
}

// Rules returns the pipeline's rule names in order.
func (p *Processor) Rules() []string {
	names := make([]string, 0, len(p.rules))
	for _, r := range p.rules {
		names = append(names, r.Name())
	}
	return names
}

// Process runs every rule over c and returns the annotated crash. A nil c
// yields a Result with a note and no rule is run.
func (p *Processor) Process(ctx context.Context, c *crash.ProcessedCrash) *Result {
	start := time.Now()
	defer func() {
		crashDuration.Observe(time.Since(start).Seconds())
	}()

	res := &Result{Crash: c}
	if c == nil {
		res.Notes = append(res.Notes, "no crash to process")
		return res
	}
	for _, r := range p.rules {
		if ctx.Err() != nil {
			res.Notes = append(res.Notes, fmt.Sprintf("%s: %v", r.Name(), ctx.Err()))
			break
		}
		if !r.Predicate(c) {
			slog.Debug("rule predicate rejected crash", "rule", r.Name(), "uuid", c.UUID)
			continue
		}
		if err := p.runAction(ctx, r, c); err != nil {
			ruleFailures.WithLabelValues(r.Name()).Inc()
			slog.Warn("rule action failed",
				"rule", r.Name(),
				"uuid", c.UUID,
				"error", err)
			res.Notes = append(res.Notes, fmt.Sprintf("%s: %v", r.Name(), err))
		}
	}
	return res
}

// runAction calls the rule's action, turning a panic into an error.
func (p *Processor) runAction(ctx context.Context, r rule.Rule, c *crash.ProcessedCrash) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New(errors.ErrCodeInternal, fmt.Sprintf("rule panicked: %v", rec))
		}
	}()
	return r.Action(ctx, c)
}

// ProcessAll processes crashes concurrently and returns the results in the
// same order as the input. It stops early and returns the context error when
// ctx is canceled.
func (p *Processor) ProcessAll(ctx context.Context, crashes []*crash.ProcessedCrash) ([]*Result, error) {
	results := make([]*Result, len(crashes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, c := range crashes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.Process(gctx, c)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "crash processing canceled", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "crash processing canceled", err)
	}

	slog.Debug("processed crashes", "count", len(crashes), "concurrency", p.concurrency)
	return results, nil
}
