// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/cefwatch/cefwatch/internal/config"
	"github.com/cefwatch/cefwatch/internal/meta"
	"github.com/cefwatch/cefwatch/internal/stash"
)

const listingPage = `<html><body>
<table id="linux64">
  <tr class="toprow" data-version="73.1.3+g46cf800+chromium-73.0.3683.75"></tr>
  <tr class="toprow" data-version="73.1.10+gaaaaaaa+chromium-73.0.3683.90"></tr>
</table>
<table id="windows32">
  <tr class="toprow" data-version="3.3578.1869.gcc1dc0f"></tr>
</table>
</body></html>`

const newerPage = `<html><body>
<table id="linux64">
  <tr class="toprow" data-version="73.1.11+gccccccc+chromium-73.0.3683.99"></tr>
</table>
</body></html>`

type harness struct {
	dir    string
	stdout bytes.Buffer
	stderr bytes.Buffer
	stdin  io.Reader
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("CEFWATCH_CFG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("CEFWATCH_CACHE", "0")
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })

	return &harness{dir: t.TempDir(), stdin: strings.NewReader("")}
}

func (h *harness) meta() meta.Meta {
	return meta.Meta{
		Context: context.Background(),
		Stdout:  &h.stdout,
		Stderr:  &h.stderr,
		Stdin:   h.stdin,
	}
}

func (h *harness) listing(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// run executes one subcommand with fresh output buffers.
func (h *harness) run(builder func(meta.Meta) *cli.Command, args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	cmd := builder(h.meta())
	return cmd.Run(context.Background(), append([]string{cmd.Name}, args...))
}

func decode(t *testing.T, b []byte) map[string]map[string]map[string]any {
	t.Helper()
	var got map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	return got
}

func TestCheck_FirstRunThenQuiet(t *testing.T) {
	h := newHarness(t)
	page := h.listing(t, "index.html", listingPage)
	stashDir := filepath.Join(h.dir, "stash")

	require.NoError(t, h.run(checkCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64,windows32", page))

	got := decode(t, h.stdout.Bytes())
	assert.Equal(t, "73.1.10", got["linux64"]["3683"]["tag"])
	assert.Equal(t, float64(1869), got["windows32"]["3578"]["delta"])
	assert.Equal(t, 1, strings.Count(h.stdout.String(), "\n"), "one compact line")

	assert.FileExists(t, filepath.Join(stashDir, stash.UnitName("linux64")))
	assert.FileExists(t, filepath.Join(stashDir, stash.UnitName("windows32")))

	require.NoError(t, h.run(checkCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64,windows32", page))
	assert.Empty(t, h.stdout.String())
}

func TestCheck_ReportsOnlyNewer(t *testing.T) {
	h := newHarness(t)
	stashDir := filepath.Join(h.dir, "stash")

	require.NoError(t, h.run(checkCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64", h.listing(t, "a.html", listingPage)))
	require.NoError(t, h.run(checkCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64", h.listing(t, "b.html", newerPage)))

	got := decode(t, h.stdout.Bytes())
	require.Contains(t, got, "linux64")
	assert.Equal(t, "73.1.11", got["linux64"]["3683"]["tag"])
}

func TestCheck_DisableStash(t *testing.T) {
	h := newHarness(t)
	page := h.listing(t, "index.html", listingPage)
	t.Chdir(h.dir)

	for range 2 {
		require.NoError(t, h.run(checkCommandBuilder, "-x", "--platforms", "windows32", page))
		assert.Contains(t, decode(t, h.stdout.Bytes()), "windows32")
	}
	assert.NoFileExists(t, filepath.Join(h.dir, stash.UnitName("windows32")))
}

func TestCheck_BranchFilter(t *testing.T) {
	h := newHarness(t)
	page := h.listing(t, "index.html", listingPage)

	require.NoError(t, h.run(checkCommandBuilder, "-x", "--branches", "9999", "--platforms", "linux64", page))
	assert.Empty(t, h.stdout.String())
}

func TestCheck_Stdin(t *testing.T) {
	h := newHarness(t)
	h.stdin = strings.NewReader(listingPage)

	require.NoError(t, h.run(checkCommandBuilder, "-x", "--platforms", "linux64", "-"))
	assert.Contains(t, decode(t, h.stdout.Bytes()), "linux64")
}

func TestCheck_YAMLOutput(t *testing.T) {
	h := newHarness(t)
	page := h.listing(t, "index.html", listingPage)

	require.NoError(t, h.run(checkCommandBuilder, "-x", "-o", "yaml", "--platforms", "windows32", page))
	assert.Contains(t, h.stdout.String(), "windows32:")
	assert.Contains(t, h.stdout.String(), "delta: 1869")
}

func TestCheck_BadOutput(t *testing.T) {
	h := newHarness(t)
	page := h.listing(t, "index.html", listingPage)

	assert.Error(t, h.run(checkCommandBuilder, "-x", "-o", "xml", page))
}

func TestCheck_MissingListing(t *testing.T) {
	h := newHarness(t)

	err := h.run(checkCommandBuilder, "-x", filepath.Join(h.dir, "nope.html"))
	assert.Error(t, err)
	assert.Empty(t, h.stdout.String())
}

func TestCheck_ParseErrorStillReportsOthers(t *testing.T) {
	h := newHarness(t)
	page := h.listing(t, "index.html", `<table id="linux32"><tr class="toprow" data-version="bogus"></tr></table>`+listingPage)

	err := h.run(checkCommandBuilder, "-x", "--platforms", "linux32,windows32", page)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "linux32")
	assert.Contains(t, decode(t, h.stdout.Bytes()), "windows32")
}

func TestCheck_PlatformsFromConfig(t *testing.T) {
	h := newHarness(t)
	cfg := h.listing(t, "cefwatch.yaml", "check:\n  platforms: [windows32]\n")
	t.Setenv("CEFWATCH_CFG_FILE", cfg)
	page := h.listing(t, "index.html", listingPage)

	require.NoError(t, h.run(checkCommandBuilder, "-x", page))
	got := decode(t, h.stdout.Bytes())
	assert.Contains(t, got, "windows32")
	assert.NotContains(t, got, "linux64")
}

func TestCheck_NumericBranchesFromConfig(t *testing.T) {
	h := newHarness(t)
	t.Setenv("CEFWATCH_CFG_FILE", h.listing(t, "cefwatch.yaml", "check:\n  branches: [3683]\n"))
	page := h.listing(t, "index.html", `<table id="linux64">
  <tr class="toprow" data-version="73.1.3+g46cf800+chromium-73.0.3683.75"></tr>
  <tr class="toprow" data-version="74.0.1+gbbbbbbb+chromium-74.0.3729.10"></tr>
</table>`)

	require.NoError(t, h.run(checkCommandBuilder, "-x", "--platforms", "linux64", page))
	got := decode(t, h.stdout.Bytes())
	assert.Contains(t, got["linux64"], "3683")
	assert.NotContains(t, got["linux64"], "3729")
}

func TestCheck_UnreadableConfigList(t *testing.T) {
	h := newHarness(t)
	t.Setenv("CEFWATCH_CFG_FILE", h.listing(t, "cefwatch.yaml", "branches: {a: 1}\n"))
	page := h.listing(t, "index.html", listingPage)

	err := h.run(checkCommandBuilder, "-x", "--platforms", "linux64", page)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "branches")
	assert.Empty(t, h.stdout.String())
}

func TestShow(t *testing.T) {
	h := newHarness(t)
	page := h.listing(t, "index.html", listingPage)
	stashDir := filepath.Join(h.dir, "stash")
	require.NoError(t, h.run(checkCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64", page))

	require.NoError(t, h.run(showCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64,windows32"))
	got := decode(t, h.stdout.Bytes())
	assert.Equal(t, "46cf800", got["linux64"]["3683"]["commit"])
	assert.NotContains(t, got, "windows32")
	assert.Contains(t, h.stderr.String(), "linux64: saved")
	assert.Contains(t, h.stderr.String(), "windows32: no stored builds")

	require.NoError(t, h.run(showCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64", "-q", "linux64.3683.tag"))
	assert.Equal(t, "73.1.10\n", h.stdout.String())
}

func TestShow_DisabledStash(t *testing.T) {
	h := newHarness(t)

	assert.Error(t, h.run(showCommandBuilder, "-x"))
}

func TestDiff(t *testing.T) {
	h := newHarness(t)
	stashDir := filepath.Join(h.dir, "stash")
	require.NoError(t, h.run(checkCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64", h.listing(t, "a.html", listingPage)))
	saved := filepath.Join(stashDir, stash.UnitName("linux64"))
	before, err := os.ReadFile(saved)
	require.NoError(t, err)

	require.NoError(t, h.run(diffCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64", h.listing(t, "b.html", newerPage)))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "linux64:\n"))
	assert.Contains(t, h.stdout.String(), "73.1.11")

	after, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, before, after, "diff never saves")

	require.NoError(t, h.run(diffCommandBuilder, "--stash-dir", stashDir, "--platforms", "linux64", h.listing(t, "c.html", listingPage)))
	assert.Equal(t, "linux64: stored and current builds are identical.\n", h.stdout.String())
}

func TestInitApp(t *testing.T) {
	newHarness(t)

	app, err := InitApp(context.Background(), []string{"cefwatch", "check"})
	require.NoError(t, err)
	assert.Equal(t, "cefwatch", app.Name)
	assert.Equal(t, "check", config.Config.Namespace)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
		for i := 1; i < len(cmd.Flags); i++ {
			assert.LessOrEqual(t, cmd.Flags[i-1].Names()[0], cmd.Flags[i].Names()[0])
		}
	}
	assert.Equal(t, Names, names)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, FlagValidators("json", OutputValidator))
	assert.NoError(t, FlagValidators("text", OutputValidator))
	assert.Error(t, FlagValidators("raw", OutputValidator))

	assert.NoError(t, FlagValidators([]string{"linux64"}, PlatformsValidator))
	assert.Error(t, FlagValidators([]string(nil), PlatformsValidator))
}

func TestListingLocation(t *testing.T) {
	var got string
	cmd := &cli.Command{
		Name:  "x",
		Flags: NewListingFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			got = ListingLocation(c)
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"x", "--base-url", "https://example.test/cef"}))
	assert.Equal(t, "https://example.test/cef/index.html", got)

	require.NoError(t, cmd.Run(context.Background(), []string{"x", "page.html"}))
	assert.Equal(t, "page.html", got)
}
