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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/crashstats/memory-measures/pkg/crash"
	"github.com/crashstats/memory-measures/pkg/defaults"
	"github.com/crashstats/memory-measures/pkg/header"
	"github.com/crashstats/memory-measures/pkg/processor"
	"github.com/crashstats/memory-measures/pkg/serializer"
)

// processResult is the output of the process command.
type processResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Crashes []*processor.Result `json:"crashes" yaml:"crashes"`
}

func processCmd() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Run the processing rules over processed crash documents",
		ArgsUsage: "CRASH...",
		Description: `Loads each processed crash (json_dump, memory_report, ...) and runs the
rule pipeline over them concurrently. The crashes are printed in input order,
with memory_measures set where extraction succeeded. Crashes whose memory
report cannot be measured are left unchanged and the reason is logged.

Examples:
  memmeasures process crash1.json crash2.json.gz
  memmeasures process --concurrency 16 --format json --output processed.json crashes/*.json`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Value:   defaults.ProcessConcurrency,
				Usage:   "Maximum number of crashes processed at once",
				Sources: cli.EnvVars(envPrefix + "CONCURRENCY"),
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			if cmd.Args().Len() == 0 {
				return fmt.Errorf("at least one CRASH argument is required")
			}

			crashes, err := loadCrashes(ctx, cmd.Args().Slice())
			if err != nil {
				return err
			}

			p := processor.New(processor.WithConcurrency(int(cmd.Int("concurrency"))))

			start := time.Now()
			results, err := p.ProcessAll(ctx, crashes)
			if err != nil {
				return fmt.Errorf("failed to process crashes: %w", err)
			}

			measured := 0
			for _, res := range results {
				if res.Crash != nil && res.Crash.MemoryMeasures != nil {
					measured++
				}
			}
			slog.Info("processed crashes",
				"count", len(results),
				"measured", measured,
				"rules", p.Rules(),
				"duration", time.Since(start).String())

			hdr := header.New(header.KindProcessedCrashes, version,
				header.WithMetadata("rules", strings.Join(p.Rules(), ",")))

			return writeOutput(ctx, cmd, outFormat, processResult{Header: hdr, Crashes: results})
		},
	}
}

// loadCrashes reads processed crash documents in argument order.
func loadCrashes(ctx context.Context, paths []string) ([]*crash.ProcessedCrash, error) {
	crashes := make([]*crash.ProcessedCrash, 0, len(paths))
	for _, path := range paths {
		c, err := serializer.FromFileWithContext[crash.ProcessedCrash](ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load crash from %q: %w", path, err)
		}
		if err := crash.ValidateCrashID(c.UUID); err != nil {
			slog.Warn("crash has no valid id", "uri", path, "error", err)
		}
		crashes = append(crashes, c)
	}
	return crashes, nil
}
