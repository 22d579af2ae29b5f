// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cefwatch/cefwatch/internal/builds"
	"github.com/cefwatch/cefwatch/internal/differ"
	"github.com/cefwatch/cefwatch/internal/log"
	"github.com/cefwatch/cefwatch/internal/report"
	"github.com/cefwatch/cefwatch/internal/stash"
)

// Run carries everything one invocation needs. Nothing is kept in package
// state.
type Run struct {
	Parser   builds.Parser
	Store    stash.Store
	Reporter *report.Reporter
	// Branches is the allow-list. Empty keeps every branch.
	Branches []string
}

// New returns a Run with a fresh Reporter. A nil store disables the stash.
func New(parser builds.Parser, store stash.Store, branches []string) *Run {
	if store == nil {
		store = stash.Disabled{}
	}
	return &Run{
		Parser:   parser,
		Store:    store,
		Reporter: report.New(),
		Branches: branches,
	}
}

// Current parses raws and returns the latest build per allowed branch.
func (r *Run) Current(platform string, raws []string) (builds.PlatformState, error) {
	log.Infof("parsing builds for platform %s", platform)

	specs, err := r.Parser.ParseAll(raws, platform)
	if err != nil {
		return nil, err
	}

	latest := builds.SelectLatest(specs)
	if len(r.Branches) > 0 {
		for _, branch := range latest.Branches() {
			if !slices.Contains(r.Branches, branch) {
				log.Infof("skipping branch %s of %s", branch, platform)
			}
		}
	}

	return latest.Filter(r.Branches), nil
}

// Platform runs the pipeline for one platform: load, select, diff, save,
// report. Errors name the platform.
func (r *Run) Platform(ctx context.Context, platform string, raws []string) error {
	log.Infof("loading stored builds for %s from %s", platform, r.Store)
	prev, found, err := r.Store.Load(ctx, platform)
	if err != nil {
		return fmt.Errorf("platform %s: %w", platform, err)
	}

	current, err := r.Current(platform, raws)
	if err != nil {
		return fmt.Errorf("platform %s: %w", platform, err)
	}

	updated := differ.Updates(prev, found, current)
	for _, branch := range updated.Branches() {
		log.Infof("new build available for %s: %s -> %s", platform, branch, updated[branch].Version)
	}

	log.Infof("stashing results for %s", platform)
	if err := r.Store.Save(ctx, platform, current); err != nil {
		return fmt.Errorf("platform %s: %w", platform, err)
	}

	r.Reporter.Add(platform, updated)
	return nil
}

// All runs Platform for each platform in order. A failing platform does not
// stop the others; every failure is returned joined.
func (r *Run) All(ctx context.Context, platforms []string, specs map[string][]string) error {
	var errs []error
	for _, platform := range platforms {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.Platform(ctx, platform, specs[platform]); err != nil {
			log.WithError(err).Errorf("check failed for %s", platform)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
