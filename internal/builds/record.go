// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builds

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/cefwatch/cefwatch/internal/versiontag"
)

// Version is either a full published tag or a legacy delta counter. Exactly
// one of the two is set. Use FullTag or DeltaOnly to construct one.
type Version struct {
	raw   string
	delta int
	full  bool
	tag   versiontag.Tag
}

// FullTag wraps a published version tag such as "73.1.3".
func FullTag(raw string) (Version, error) {
	tag, err := versiontag.Parse(raw)
	if err != nil {
		return Version{}, err
	}
	return Version{raw: raw, full: true, tag: tag}, nil
}

// DeltaOnly wraps a legacy delta counter. Its comparable tag is 0.0.<delta>.
func DeltaOnly(delta int) Version {
	return Version{delta: delta, tag: versiontag.Synthesize(delta)}
}

// IsFull reports whether v carries a published tag.
func (v Version) IsFull() bool {
	return v.full
}

// Delta returns the legacy counter and whether v is delta-only.
func (v Version) Delta() (int, bool) {
	return v.delta, !v.full
}

// Tag returns the normalized, comparable tag for either case.
func (v Version) Tag() versiontag.Tag {
	return v.tag
}

// String renders the tag as published, or the synthesized tag for legacy
// deltas.
func (v Version) String() string {
	if v.full {
		return v.raw
	}
	return v.tag.String()
}

// Distribution is a packaging variant of a build.
type Distribution struct {
	Name   string
	Suffix string
}

// Distributions is the fixed set of packaging variants published for every
// build, in a stable order.
var Distributions = []Distribution{
	{Name: "standard", Suffix: ""},
	{Name: "minimal", Suffix: "_minimal"},
	{Name: "client", Suffix: "_client"},
	{Name: "debug_symbols", Suffix: "_debug_symbols"},
	{Name: "release_symbols", Suffix: "_release_symbols"},
}

// Record is one build for a (platform, branch) pair.
type Record struct {
	Version Version
	Commit  string
	Dists   map[string]string
}

// record is the persisted and emitted shape of a Record.
type record struct {
	Tag    *string           `json:"tag,omitempty" yaml:"tag,omitempty"`
	Delta  *int              `json:"delta,omitempty" yaml:"delta,omitempty"`
	Commit string            `json:"commit" yaml:"commit"`
	Dists  map[string]string `json:"dists" yaml:"dists"`
}

func (r Record) wire() record {
	w := record{Commit: r.Commit, Dists: r.Dists}
	if w.Dists == nil {
		w.Dists = map[string]string{}
	}
	if d, ok := r.Version.Delta(); ok {
		w.Delta = &d
	} else {
		s := r.Version.String()
		w.Tag = &s
	}
	return w
}

// MarshalJSON writes {"tag"|"delta", "commit", "dists"}.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// UnmarshalJSON accepts either a "tag" or a legacy "delta". A delta may be
// stored as a number or a numeric string.
func (r *Record) UnmarshalJSON(b []byte) error {
	var w struct {
		Tag    *string           `json:"tag"`
		Delta  json.RawMessage   `json:"delta"`
		Commit string            `json:"commit"`
		Dists  map[string]string `json:"dists"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	switch {
	case w.Tag != nil:
		v, err := FullTag(*w.Tag)
		if err != nil {
			return err
		}
		r.Version = v
	case len(w.Delta) > 0:
		d, err := parseDelta(w.Delta)
		if err != nil {
			return err
		}
		r.Version = DeltaOnly(d)
	default:
		return fmt.Errorf("build record has neither tag nor delta")
	}

	r.Commit = w.Commit
	r.Dists = w.Dists
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r Record) MarshalYAML() (interface{}, error) {
	return r.wire(), nil
}

func parseDelta(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("delta: %w", err)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &versiontag.ParseError{Input: s, Reason: "delta is not a non-negative integer"}
	}
	return n, nil
}

// PlatformState maps branch identifier to the latest known build for a
// single platform.
type PlatformState map[string]Record

// Branches returns the branch identifiers sorted numerically where possible.
func (ps PlatformState) Branches() []string {
	keys := make([]string, 0, len(ps))
	for k := range ps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Filter returns the subset of ps whose branches appear in allow. An empty
// allow list keeps everything.
func (ps PlatformState) Filter(allow []string) PlatformState {
	if len(allow) == 0 {
		return ps
	}
	keep := make(map[string]bool, len(allow))
	for _, b := range allow {
		keep[b] = true
	}
	out := make(PlatformState, len(ps))
	for branch, rec := range ps {
		if keep[branch] {
			out[branch] = rec
		}
	}
	return out
}

// UpdateSet maps platform to the branches with newly available builds.
type UpdateSet map[string]PlatformState

// DefaultPlatforms is the platform set processed when none is configured.
var DefaultPlatforms = []string{"linux32", "linux64", "macosx64", "windows32", "windows64"}
