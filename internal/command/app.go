// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cefwatch/cefwatch/internal/config"
	"github.com/cefwatch/cefwatch/internal/meta"
)

// Names lists the subcommands InitApp registers.
var Names = []string{"check", "diff", "show"}

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the cefwatch
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is normal.
	cfg, _ := config.Load(ns) //nolint
	m := meta.New(ctx, args)
	m.Config = cfg

	app := &cli.Command{
		Name:  "cefwatch",
		Usage: "CEF build watcher",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Usage:       "cefwatch version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		checkCommandBuilder(m),
		diffCommandBuilder(m),
		showCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
