// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package watcher runs the check pipeline for each platform: load the stored
// state, parse the raw specs, keep the latest build per branch, apply the
// branch allow-list, compute updates, save the current state and hand the
// updates to the reporter. Platforms run one at a time and, within a
// platform, load always completes before save.
package watcher
