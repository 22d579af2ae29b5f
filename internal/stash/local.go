// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/cefwatch/cefwatch/internal/builds"
	"github.com/cefwatch/cefwatch/internal/log"
)

// lockRetry is how often a blocked Save polls for the platform lock.
const lockRetry = 50 * time.Millisecond

// Local keeps one JSON file per platform in Dir.
type Local struct {
	Dir string
}

// NewLocal returns a Local rooted at dir, defaulting to the working
// directory.
func NewLocal(dir string) *Local {
	if dir == "" {
		dir = "."
	}
	return &Local{Dir: dir}
}

// Path returns the file holding platform's state.
func (l *Local) Path(platform string) string {
	return filepath.Join(l.Dir, UnitName(platform))
}

// Load implements Store. A missing file is a first run, not an error.
func (l *Local) Load(ctx context.Context, platform string) (builds.PlatformState, bool, error) {
	p := l.Path(platform)

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("no stash for %s at %s", platform, p)
			return nil, false, nil
		}
		return nil, false, &Error{Kind: ErrStateUnavailable, Platform: platform, Location: p, Err: err}
	}

	state, err := Decode(data)
	if err != nil {
		return nil, false, &Error{Kind: ErrStateUnavailable, Platform: platform, Location: p, Err: err}
	}

	log.Debugf("loaded stash for %s: branches=%d", platform, len(state))
	return state, true, nil
}

// Save implements Store. The file is replaced atomically while holding a
// per-platform lock so concurrent runs never interleave writes.
func (l *Local) Save(ctx context.Context, platform string, state builds.PlatformState) error {
	p := l.Path(platform)
	fail := func(err error) error {
		return &Error{Kind: ErrStateWriteFailure, Platform: platform, Location: p, Err: err}
	}

	data, err := Encode(state)
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(l.Dir, 0o755); err != nil { //nolint:mnd
		return fail(fmt.Errorf("failed to create stash directory: %w", err))
	}

	lock := flock.New(p + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fail(fmt.Errorf("failed to lock: %w", err))
	}
	if !locked {
		return fail(errors.New("failed to lock"))
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).Warnf("failed to unlock %s", lock.Path())
		}
	}()

	tmp, err := os.CreateTemp(l.Dir, UnitName(platform)+".*.tmp")
	if err != nil {
		return fail(fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fail(fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fail(fmt.Errorf("failed to close temp file: %w", err))
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { //nolint:mnd
		_ = os.Remove(tmpPath)
		return fail(err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		return fail(fmt.Errorf("failed to rename temp file: %w", err))
	}

	log.Debugf("stash write: platform=%s path=%s branches=%d", platform, p, len(state))
	return nil
}

// Stat returns the time platform's state was last saved.
func (l *Local) Stat(platform string) (time.Time, bool) {
	fi, err := os.Stat(l.Path(platform))
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}

func (l *Local) String() string {
	return "stash-local:" + l.Dir
}
