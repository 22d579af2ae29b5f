// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/cefwatch/cefwatch/internal/config"
	"github.com/cefwatch/cefwatch/internal/log"
	"github.com/cefwatch/cefwatch/internal/meta"
	"github.com/cefwatch/cefwatch/internal/report"
	"github.com/cefwatch/cefwatch/internal/stash"
)

// statter is implemented by stores that know when a platform was saved.
type statter interface {
	Stat(platform string) (time.Time, bool)
}

// showCommandAction is the action handler for the "show" subcommand. It
// prints the stored builds of every platform, or the value a gjson --query
// selects from them. When each platform was last saved is written to stderr.
func showCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.SetVerbose(cmd.Bool("verbose"))

	config.Config.Namespace = "show"

	platforms, err := listValue(cmd, "platforms")
	if err != nil {
		return err
	}
	if err := FlagValidators(platforms, PlatformsValidator); err != nil {
		return fmt.Errorf("invalid --platforms: %w", err)
	}

	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}
	if _, ok := store.(stash.Disabled); ok {
		return errors.New("nothing to show with the stash disabled")
	}

	stored := report.New()
	var errs []error
	for _, platform := range platforms {
		state, found, err := store.Load(ctx, platform)
		if err != nil {
			errs = append(errs, fmt.Errorf("platform %s: %w", platform, err))
			continue
		}
		fmt.Fprintln(m.Stderr, savedLine(store, platform, found))
		stored.Add(platform, state)
	}

	if q := cmd.String("query"); q != "" {
		doc, err := json.Marshal(stored.Result())
		if err != nil {
			return errors.Join(append(errs, err)...)
		}
		if result := gjson.GetBytes(doc, q); result.Exists() {
			fmt.Fprintln(m.Stdout, result.String())
		} else {
			log.Warnf("query %q matched nothing", q)
		}
		return errors.Join(errs...)
	}

	if err := stored.Emit(m.Stdout, cmd.String("output"), ColorEnabled(m.Stdout)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// savedLine describes where and when platform's state was saved.
func savedLine(store stash.Store, platform string, found bool) string {
	if !found {
		return fmt.Sprintf("%s: no stored builds in %s", platform, store)
	}
	if s, ok := store.(statter); ok {
		if mod, ok := s.Stat(platform); ok {
			return fmt.Sprintf("%s: saved %s in %s", platform, humanize.Time(mod), store)
		}
	}
	return fmt.Sprintf("%s: stored in %s", platform, store)
}

// showCommandBuilder constructs the "show" subcommand.
func showCommandBuilder(m meta.Meta) *cli.Command {
	flags := NewStashFlags("show", m.Config.Source)
	flags = append(flags,
		NewPlatformsFlag(),
		NewVerboseFlag("show", m.Config.Source),
		NewOutputFlag("show", m.Config.Source),
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "gjson path into the stored builds, e.g. linux64.3683.tag",
		},
	)

	return &cli.Command{
		Name:      "show",
		Usage:     "print the stored builds",
		UsageText: "cefwatch show [options]",
		Metadata:  map[string]any{"meta": m},
		Flags:     flags,
		Action:    showCommandAction,
	}
}
