// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cefwatch/cefwatch/internal/log"
)

// Entry is a cached document on disk. Key is the clear-text key and
// EncodedKey the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
	ModTime    time.Time
}

// Dir resolves the base cache directory.
// Precedence:
//  1. CEFWATCH_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/cefwatch
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("CEFWATCH_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "cefwatch"), true
	}
	return "", false
}

// Enabled returns true only when CEFWATCH_CACHE is set to something other
// than "0"/"false". Listings change often, so caching is opt-in.
func Enabled() bool {
	v, ok := os.LookupEnv("CEFWATCH_CACHE")
	return ok && v != "" && v != "0" && v != "false"
}

// EntryPath returns where the entry for clearKey lives beneath subdirs and
// whether a file currently exists there.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append([]string{base}, append(subdirs, encodeKey(clearKey))...)...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Purge removes cached files older than maxAge. A non-positive maxAge or an
// unresolvable cache dir is a no-op.
func Purge(maxAge time.Duration) error {
	if maxAge <= 0 {
		log.Debugf("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read returns the cached entry for clearKey, if caching is enabled and the
// entry exists.
func Read(subdirs []string, clearKey string) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	fi, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
		ModTime:    fi.ModTime(),
	}, true
}

// Write stores data for clearKey beneath subdirs, creating directories as
// needed. It is a no-op when caching is disabled.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p := filepath.Join(dir, encodeKey(clearKey))
	if err := os.WriteFile(p, data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", clearKey)
	return nil
}

// encodeKey returns the hex sha256 of input.
func encodeKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
