// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cefwatch/cefwatch/internal/builds"
)

func state(t *testing.T, platform string, raws ...string) builds.PlatformState {
	t.Helper()
	specs, err := builds.Parser{}.ParseAll(raws, platform)
	require.NoError(t, err)
	return builds.SelectLatest(specs)
}

func TestReporter_EmptyEmitsNothing(t *testing.T) {
	r := New()
	r.Add("linux64", nil)
	r.Add("linux64", builds.PlatformState{})

	assert.True(t, r.Empty())
	for _, f := range Formats {
		var buf bytes.Buffer
		require.NoError(t, r.Emit(&buf, f, false))
		assert.Empty(t, buf.String(), f)
	}
}

func TestReporter_Aggregates(t *testing.T) {
	r := New()
	r.Add("linux64", state(t, "linux64", "73.1.3+g46cf800+chromium-73.0.3683.75"))
	r.Add("windows32", state(t, "windows32", "3.3578.1869.gcc1dc0f"))
	r.Add("macosx64", nil)

	require.False(t, r.Empty())
	res := r.Result()
	assert.Len(t, res, 2)
	assert.Contains(t, res["linux64"], "3683")
	assert.Contains(t, res["windows32"], "3578")
	assert.NotContains(t, res, "macosx64")
}

func TestReporter_AddMerges(t *testing.T) {
	r := New()
	r.Add("linux64", state(t, "linux64", "73.1.3+g46cf800+chromium-73.0.3683.75"))
	r.Add("linux64", state(t, "linux64", "74.0.1+gbbbbbbb+chromium-74.0.3729.10"))

	assert.Equal(t, []string{"3683", "3729"}, r.Result()["linux64"].Branches())
}

func TestEmit_JSON(t *testing.T) {
	r := New()
	r.Add("linux64", state(t, "linux64", "73.1.3+g46cf800+chromium-73.0.3683.75"))

	var buf bytes.Buffer
	require.NoError(t, r.Emit(&buf, "json", false))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Equal(t, 1, strings.Count(out, "\n"), "single line")

	var doc map[string]map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "73.1.3", doc["linux64"]["3683"]["tag"])
	assert.Equal(t, "46cf800", doc["linux64"]["3683"]["commit"])
	assert.Len(t, doc["linux64"]["3683"]["dists"], len(builds.Distributions))
}

func TestEmit_YAML(t *testing.T) {
	r := New()
	r.Add("windows32", state(t, "windows32", "3.3578.1869.gcc1dc0f"))

	var buf bytes.Buffer
	require.NoError(t, r.Emit(&buf, "yaml", false))

	out := buf.String()
	assert.Contains(t, out, "windows32:")
	assert.Contains(t, out, "delta: 1869")
	assert.Contains(t, out, "commit: cc1dc0f")
}

func TestEmit_Text(t *testing.T) {
	r := New()
	r.Add("linux64", state(t, "linux64", "73.1.3+g46cf800+chromium-73.0.3683.75"))

	var buf bytes.Buffer
	require.NoError(t, r.Emit(&buf, "text", false))

	out := buf.String()
	assert.Contains(t, out, "PLATFORM")
	assert.Contains(t, out, "linux64")
	assert.Contains(t, out, "3683")
	assert.Contains(t, out, "73.1.3")
	assert.Contains(t, out, "46cf800")
}

func TestEmit_UnknownFormat(t *testing.T) {
	r := New()
	r.Add("linux64", state(t, "linux64", "73.1.3+g46cf800+chromium-73.0.3683.75"))

	assert.Error(t, r.Emit(&bytes.Buffer{}, "xml", false))
}
