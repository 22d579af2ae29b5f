// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/cefwatch/cefwatch/internal/builds"
)

// Formats lists the accepted output formats.
var Formats = []string{"json", "yaml", "text"}

// Reporter accumulates update fragments across platforms.
type Reporter struct {
	updates builds.UpdateSet
}

// New returns an empty Reporter.
func New() *Reporter {
	return &Reporter{updates: builds.UpdateSet{}}
}

// Add merges one platform's updated branches. Empty fragments are ignored so
// platforms without updates never appear in the result.
func (r *Reporter) Add(platform string, updated builds.PlatformState) {
	if len(updated) == 0 {
		return
	}
	ps, ok := r.updates[platform]
	if !ok {
		ps = make(builds.PlatformState, len(updated))
		r.updates[platform] = ps
	}
	for branch, rec := range updated {
		ps[branch] = rec
	}
}

// Empty reports whether no platform had updates.
func (r *Reporter) Empty() bool {
	return len(r.updates) == 0
}

// Result returns the aggregate, keyed by platform then branch.
func (r *Reporter) Result() builds.UpdateSet {
	return r.updates
}

// Emit writes the aggregate to w in the given format. Nothing is written
// when there are no updates.
func (r *Reporter) Emit(w io.Writer, format string, color bool) error {
	if r.Empty() {
		return nil
	}

	switch format {
	case "", "json":
		b, err := json.Marshal(r.updates)
		if err != nil {
			return fmt.Errorf("failed to marshal updates: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(r.updates)
		if err != nil {
			return fmt.Errorf("failed to marshal updates: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "text":
		return TableWriter(w, r.updates, color)
	default:
		return fmt.Errorf("unknown output format %q: must be one of %v", format, Formats)
	}
}

// TableWriter renders one row per platform and branch.
func TableWriter(w io.Writer, set builds.UpdateSet, color bool) error {
	headerStyle := lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
	cellStyle := lipgloss.NewStyle().Align(lipgloss.Left)
	if color {
		headerStyle = headerStyle.Foreground(lipgloss.Color("#f6be00"))
	}

	var rows [][]string
	for _, platform := range sortedPlatforms(set) {
		ps := set[platform]
		for _, branch := range ps.Branches() {
			rec := ps[branch]
			rows = append(rows, []string{platform, branch, rec.Version.String(), rec.Commit, rec.Dists["standard"]})
		}
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerStyle
			}
			if col > 0 {
				style = style.PaddingLeft(1)
			}
			return style
		}).
		Headers("PLATFORM", "BRANCH", "VERSION", "COMMIT", "ARTIFACT").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t)
	return err
}

func sortedPlatforms(set builds.UpdateSet) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
