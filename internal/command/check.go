// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cefwatch/cefwatch/internal/builds"
	"github.com/cefwatch/cefwatch/internal/config"
	"github.com/cefwatch/cefwatch/internal/log"
	"github.com/cefwatch/cefwatch/internal/meta"
	"github.com/cefwatch/cefwatch/internal/watcher"
)

// checkCommandAction is the action handler for the "check" subcommand. It
// reads the listing, runs the pipeline for every platform and prints the
// builds that are new since the last run. Platforms that succeed are
// reported even when another platform fails.
func checkCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.SetVerbose(cmd.Bool("verbose"))
	log.Debugf("executing check: args=%v", cmd.Args().Slice())

	config.Config.Namespace = "check"

	platforms, err := listValue(cmd, "platforms")
	if err != nil {
		return err
	}
	if err := FlagValidators(platforms, PlatformsValidator); err != nil {
		return fmt.Errorf("invalid --platforms: %w", err)
	}

	branches, err := listValue(cmd, "branches")
	if err != nil {
		return err
	}

	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	specs, err := NewSource(m).Specs(ctx, ListingLocation(cmd), platforms)
	if err != nil {
		return err
	}

	run := watcher.New(builds.Parser{BaseURL: cmd.String("base-url")}, store, branches)
	runErr := run.All(ctx, platforms, specs)

	if err := run.Reporter.Emit(m.Stdout, cmd.String("output"), ColorEnabled(m.Stdout)); err != nil {
		return errors.Join(runErr, err)
	}

	return runErr
}

// checkCommandBuilder constructs the "check" subcommand.
func checkCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewListingFlags("check", m.Config.Source)
	flags = append(flags, NewStashFlags("check", m.Config.Source)...)
	flags = append(flags, NewOutputFlag("check", m.Config.Source))

	return &cli.Command{
		Name:      "check",
		Usage:     "report builds that are new since the last check",
		UsageText: "cefwatch check [options] [listing-file|-|url]",
		Metadata:  map[string]any{"meta": m},
		Flags:     flags,
		Action:    checkCommandAction,
	}
}
