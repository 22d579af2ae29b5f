// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builds

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cefwatch/cefwatch/internal/versiontag"
)

// DefaultBaseURL is where the listing and the artifacts are published.
const DefaultBaseURL = "https://opensource.spotify.com/cefbuilds"

// Format identifies which of the two historical spec layouts a raw spec uses.
type Format int

const (
	// Modern specs look like "73.1.3+g46cf800+chromium-73.0.3683.75".
	Modern Format = iota
	// Legacy specs look like "3.3578.1869.gcc1dc0f".
	Legacy
)

func (f Format) String() string {
	switch f {
	case Modern:
		return "modern"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// DetectFormat picks the layout by the presence of a '+' delimiter.
func DetectFormat(raw string) Format {
	if strings.Contains(raw, "+") {
		return Modern
	}
	return Legacy
}

// SpecError reports a raw build spec that matches neither layout.
type SpecError struct {
	Spec     string
	Platform string
	Format   Format
	Err      error
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("malformed %s build spec %q for %s: %v", e.Format, e.Spec, e.Platform, e.Err)
}

// Unwrap always leads to versiontag.ErrParse so callers can use errors.Is.
func (e *SpecError) Unwrap() error {
	return e.Err
}

// Spec is a parsed raw build specification.
type Spec struct {
	Raw      string
	Platform string
	Format   Format
	Branch   string
	Record   Record
}

// Parser turns raw listing specs into Specs. The zero value publishes
// artifact locators under DefaultBaseURL.
type Parser struct {
	BaseURL string
}

// Parse parses one raw spec found under platform's listing table.
func (p Parser) Parse(raw, platform string) (Spec, error) {
	format := DetectFormat(raw)

	var (
		branch  string
		version Version
		commit  string
		err     error
	)
	switch format {
	case Modern:
		branch, version, commit, err = parseModern(raw)
	default:
		branch, version, commit, err = parseLegacy(raw)
	}
	if err != nil {
		return Spec{}, &SpecError{Spec: raw, Platform: platform, Format: format, Err: err}
	}

	return Spec{
		Raw:      raw,
		Platform: platform,
		Format:   format,
		Branch:   branch,
		Record: Record{
			Version: version,
			Commit:  commit,
			Dists:   p.Artifacts(raw, platform),
		},
	}, nil
}

// ParseAll parses every raw spec for one platform, stopping at the first
// malformed one.
func (p Parser) ParseAll(raws []string, platform string) ([]Spec, error) {
	specs := make([]Spec, 0, len(raws))
	for _, raw := range raws {
		s, err := p.Parse(raw, platform)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// Artifacts returns the locator of every distribution kind for a raw spec.
func (p Parser) Artifacts(raw, platform string) map[string]string {
	base := strings.TrimRight(p.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	encoded := quote(raw)

	dists := make(map[string]string, len(Distributions))
	for _, d := range Distributions {
		dists[d.Name] = fmt.Sprintf("%s/cef_binary_%s_%s%s.tar.bz2", base, encoded, platform, d.Suffix)
	}
	return dists
}

func parseModern(raw string) (string, Version, string, error) {
	segs := strings.Split(raw, "+")
	if len(segs) != 3 {
		return "", Version{}, "", malformed("want 3 '+' segments, got %d", len(segs))
	}

	if len(segs[1]) < 2 || segs[1][0] != 'g' {
		return "", Version{}, "", malformed("commit segment %q lacks 'g' prefix", segs[1])
	}

	chromium := strings.Split(segs[2], ".")
	if len(chromium) < 3 {
		return "", Version{}, "", malformed("want at least 3 '.' parts in %q", segs[2])
	}
	branch := chromium[2]
	if branch == "" {
		return "", Version{}, "", malformed("empty branch in %q", segs[2])
	}

	version, err := FullTag(segs[0])
	if err != nil {
		return "", Version{}, "", err
	}

	return branch, version, segs[1][1:], nil
}

func parseLegacy(raw string) (string, Version, string, error) {
	comps := strings.Split(raw, ".")
	if len(comps) != 4 {
		return "", Version{}, "", malformed("want 4 '.' components, got %d", len(comps))
	}

	branch := comps[1]
	if branch == "" {
		return "", Version{}, "", malformed("empty branch")
	}

	delta, err := strconv.Atoi(comps[2])
	if err != nil || delta < 0 {
		return "", Version{}, "", &versiontag.ParseError{Input: comps[2], Reason: "delta is not a non-negative integer"}
	}

	if len(comps[3]) < 2 {
		return "", Version{}, "", malformed("commit component %q too short", comps[3])
	}

	return branch, DeltaOnly(delta), comps[3][1:], nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", versiontag.ErrParse, fmt.Sprintf(format, args...))
}

// quote percent-encodes everything outside the unreserved set, so '+'
// becomes %2B.
func quote(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
