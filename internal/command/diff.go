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
	"github.com/cefwatch/cefwatch/internal/differ"
	"github.com/cefwatch/cefwatch/internal/log"
	"github.com/cefwatch/cefwatch/internal/meta"
	"github.com/cefwatch/cefwatch/internal/watcher"
)

// diffCommandAction is the action handler for the "diff" subcommand. It
// shows, per platform, how the listing's latest builds differ from the
// stored ones. Nothing is saved.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.SetVerbose(cmd.Bool("verbose"))

	config.Config.Namespace = "diff"

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
	color := ColorEnabled(m.Stdout)

	var errs []error
	for _, platform := range platforms {
		current, err := run.Current(platform, specs[platform])
		if err != nil {
			errs = append(errs, fmt.Errorf("platform %s: %w", platform, err))
			continue
		}

		stored, _, err := store.Load(ctx, platform)
		if err != nil {
			errs = append(errs, fmt.Errorf("platform %s: %w", platform, err))
			continue
		}

		if err := differ.Render(m.Stdout, platform, stored, current, color); err != nil {
			errs = append(errs, fmt.Errorf("platform %s: %w", platform, err))
		}
	}

	return errors.Join(errs...)
}

// diffCommandBuilder constructs the "diff" subcommand.
func diffCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewListingFlags("diff", m.Config.Source)
	flags = append(flags, NewStashFlags("diff", m.Config.Source)...)

	return &cli.Command{
		Name:      "diff",
		Usage:     "compare stored builds with the listing without saving",
		UsageText: "cefwatch diff [options] [listing-file|-|url]",
		Metadata:  map[string]any{"meta": m},
		Flags:     flags,
		Action:    diffCommandAction,
	}
}
