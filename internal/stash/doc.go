// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package stash persists, per platform, the latest build observed for each
// branch so the next run can tell which builds are new. State lives in a
// local directory, an S3 bucket, or nowhere at all when stashing is
// disabled.
package stash
