// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><head><title>CEF Automated Builds</title></head>
<body>
<table id="linux64">
  <tr class="toprow" data-version="73.1.3+g46cf800+chromium-73.0.3683.75"><td>73.1.3</td></tr>
  <tr class="subrow"><td>standard</td></tr>
  <tr class="toprow" data-version="73.1.10+gaaaaaaa+chromium-73.0.3683.90"><td>73.1.10</td></tr>
</table>
<table id="windows32">
  <tr class="toprow" data-version="3.3578.1869.gcc1dc0f"><td>3.3578</td></tr>
  <tr class="toprow"><td>no version</td></tr>
</table>
<table id="other">
  <tr class="toprow" data-version="1.1.1+gdeadbee+chromium-1.0.1.0"><td>x</td></tr>
</table>
</body></html>`

func TestExtract(t *testing.T) {
	got, err := Extract(strings.NewReader(page), []string{"linux64", "windows32", "macosx64"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"73.1.3+g46cf800+chromium-73.0.3683.75",
		"73.1.10+gaaaaaaa+chromium-73.0.3683.90",
	}, got["linux64"])
	assert.Equal(t, []string{"3.3578.1869.gcc1dc0f"}, got["windows32"])
	assert.Equal(t, []string{}, got["macosx64"])
	assert.NotContains(t, got, "other")
}

func TestExtract_NestedTableIgnored(t *testing.T) {
	doc := `<table id="linux64"><tr class="toprow" data-version="a"><td>
<table><tr class="toprow" data-version="nested"></tr></table></td></tr></table>`

	got, err := Extract(strings.NewReader(doc), []string{"linux64"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, got["linux64"])
}

func TestFetch_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(p, []byte(page), 0o600))

	specs, err := Source{}.Specs(context.Background(), p, []string{"windows32"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3.3578.1869.gcc1dc0f"}, specs["windows32"])
}

func TestFetch_MissingFile(t *testing.T) {
	_, err := Source{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.Error(t, err)
}

func TestFetch_Stdin(t *testing.T) {
	b, err := Source{Stdin: strings.NewReader("hello")}.Fetch(context.Background(), "-")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestFetch_URL(t *testing.T) {
	t.Setenv("CEFWATCH_CACHE", "0")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cefbuilds/index.html", r.URL.Path)
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	specs, err := Source{}.Specs(context.Background(), IndexURL(srv.URL+"/cefbuilds/"), []string{"linux64"})
	require.NoError(t, err)
	assert.Len(t, specs["linux64"], 2)
}

func TestFetch_URLStatusError(t *testing.T) {
	t.Setenv("CEFWATCH_CACHE", "0")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := Source{}.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFetch_URLCached(t *testing.T) {
	t.Setenv("CEFWATCH_CACHE_DIR", t.TempDir())
	t.Setenv("CEFWATCH_CACHE", "1")

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	src := Source{CacheTTL: time.Hour}
	for range 3 {
		b, err := src.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, page, string(b))
	}
	assert.Equal(t, int32(1), hits.Load())

	// Without a TTL every fetch goes to the network.
	_, err := Source{}.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestIndexURL(t *testing.T) {
	assert.Equal(t, "https://x/cefbuilds/index.html", IndexURL("https://x/cefbuilds/"))
	assert.Equal(t, "https://x/cefbuilds/index.html", IndexURL("https://x/cefbuilds"))
}
