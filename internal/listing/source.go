// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package listing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cefwatch/cefwatch/internal/cacheutil"
	"github.com/cefwatch/cefwatch/internal/log"
)

// cacheSubdir groups cached listing pages beneath the cache base dir.
var cacheSubdir = []string{"listing"}

// Source reads the listing from a local file, stdin ("-"), or an http(s)
// URL.
type Source struct {
	// Client performs URL fetches. http.DefaultClient when nil.
	Client *http.Client
	// CacheTTL bounds the age of a cached page that may be reused. Zero
	// disables reuse even when caching is enabled.
	CacheTTL time.Duration
	// Stdin is read for "-". os.Stdin when nil.
	Stdin io.Reader
}

// IndexURL is the listing page published under baseURL.
func IndexURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/index.html"
}

// Fetch returns the listing document found at location.
func (s Source) Fetch(ctx context.Context, location string) ([]byte, error) {
	switch {
	case location == "-":
		in := s.Stdin
		if in == nil {
			in = os.Stdin
		}
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read listing from stdin: %w", err)
		}
		return b, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return s.fetchURL(ctx, location)
	default:
		b, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read listing: %w", err)
		}
		return b, nil
	}
}

// Specs fetches location and extracts the raw specs for platforms.
func (s Source) Specs(ctx context.Context, location string, platforms []string) (map[string][]string, error) {
	doc, err := s.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return Extract(bytes.NewReader(doc), platforms)
}

func (s Source) fetchURL(ctx context.Context, url string) ([]byte, error) {
	if err := cacheutil.Purge(s.CacheTTL); err != nil {
		log.WithError(err).Warnf("failed to purge cache")
	}

	if s.CacheTTL > 0 {
		if entry, ok := cacheutil.Read(cacheSubdir, url); ok && time.Since(entry.ModTime) <= s.CacheTTL {
			log.Debugf("listing cache hit: %s", entry.Path)
			return entry.Data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch listing: %s returned %s", url, resp.Status)
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}

	if err := cacheutil.Write(cacheSubdir, url, doc.Bytes()); err != nil {
		log.WithError(err).Warnf("failed to write listing to cache")
	}

	return doc.Bytes(), nil
}
