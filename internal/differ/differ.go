// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/cefwatch/cefwatch/internal/builds"
	"github.com/cefwatch/cefwatch/internal/log"
	"github.com/cefwatch/cefwatch/internal/versiontag"
)

// Updates returns the branches of cur that are new relative to prev. A branch
// is new when there is no prior state at all, when prev lacks the branch, or
// when its tag is strictly greater than the stored one. Full tags and
// delta-only versions compare through their normalized tags. Returns nil when
// nothing is new.
func Updates(prev builds.PlatformState, hasPrev bool, cur builds.PlatformState) builds.PlatformState {
	var updated builds.PlatformState

	for branch, rec := range cur {
		if hasPrev {
			old, seen := prev[branch]
			if seen && versiontag.Compare(rec.Version.Tag(), old.Version.Tag()) <= 0 {
				log.Tracef("branch %s unchanged: current=%s stored=%s", branch, rec.Version, old.Version)
				continue
			}
		}

		if updated == nil {
			updated = make(builds.PlatformState)
		}
		updated[branch] = rec
	}

	return updated
}

// Render writes a colored ASCII diff from prev to cur. Identical states
// produce a one-line notice.
func Render(w io.Writer, platform string, prev, cur builds.PlatformState, coloring bool) error {
	left, err := json.Marshal(orEmpty(prev))
	if err != nil {
		return fmt.Errorf("failed to marshal stored state: %w", err)
	}
	right, err := json.Marshal(orEmpty(cur))
	if err != nil {
		return fmt.Errorf("failed to marshal current state: %w", err)
	}

	delta, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return fmt.Errorf("failed to compare states: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintf(w, "%s: stored and current builds are identical.\n", platform)
		return nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(left, &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal stored state: %w", err)
	}

	f := formatter.NewAsciiFormatter(jdoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	})
	out, err := f.Format(delta)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s:\n%s", platform, out)
	return nil
}

func orEmpty(ps builds.PlatformState) builds.PlatformState {
	if ps == nil {
		return builds.PlatformState{}
	}
	return ps
}
