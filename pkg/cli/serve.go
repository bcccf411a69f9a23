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

	"github.com/urfave/cli/v3"

	"github.com/crashstats/memory-measures/pkg/api"
	"github.com/crashstats/memory-measures/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP extraction service",
		Description: `Serves POST /v1/measures along with /health, /ready and /metrics.
Server settings are read from the environment (PORT, ADDRESS, RATE_LIMIT,
RATE_LIMIT_BURST, MAX_BODY_BYTES, CACHE_MAX_COST, *_TIMEOUT).`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port, overrides PORT",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var opts []server.Option
			if cmd.IsSet("port") {
				opts = append(opts, server.WithPort(int(cmd.Int("port"))))
			}
			return api.ServeWithContext(ctx, opts...)
		},
	}
}
