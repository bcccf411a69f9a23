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

	"github.com/urfave/cli/v3"

	"github.com/crashstats/memory-measures/pkg/header"
	"github.com/crashstats/memory-measures/pkg/measures"
	"github.com/crashstats/memory-measures/pkg/memreport"
	"github.com/crashstats/memory-measures/pkg/serializer"
)

// extractResult is the output of the extract command.
type extractResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Source         string            `json:"source" yaml:"source"`
	PID            int               `json:"pid" yaml:"pid"`
	MemoryMeasures measures.Measures `json:"memory_measures" yaml:"memory_measures"`
}

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract the memory measures of one process from a memory report",
		ArgsUsage: "REPORT",
		Description: `Reads a memory report and prints the measures of the process with the
given pid. REPORT is a file path or HTTP(S) URL; .json, .yaml and gzip
compressed reports (memory_report.json.gz) are accepted.

Examples:
  memmeasures extract --pid 11620 memory_report.json.gz
  memmeasures extract --pid 11620 --format table https://example.com/memory_report.json.gz`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "pid",
				Aliases:  []string{"p"},
				Required: true,
				Usage:    "Process id whose records are measured",
				Sources:  cli.EnvVars(envPrefix + "PID"),
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one REPORT argument, got %d", cmd.Args().Len())
			}
			source := cmd.Args().First()
			pid := int(cmd.Int("pid"))

			slog.Debug("loading memory report", "uri", source)

			report, err := serializer.FromFileWithContext[memreport.Report](ctx, source)
			if err != nil {
				return fmt.Errorf("failed to load memory report from %q: %w", source, err)
			}

			ms, err := measures.Extract(report, pid)
			if err != nil {
				return fmt.Errorf("unable to extract measurements from %q: %w", source, err)
			}

			slog.Debug("extracted memory measures",
				"uri", source,
				"pid", pid,
				"records", len(report.Reports))

			hdr := header.New(header.KindMemoryMeasures, version, header.WithMetadata("source", source))

			return writeOutput(ctx, cmd, outFormat, extractResult{
				Header:         hdr,
				Source:         source,
				PID:            pid,
				MemoryMeasures: ms,
			})
		},
	}
}
