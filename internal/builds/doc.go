// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package builds turns raw build specifications from the CEF build listing
// into normalized build records and reduces them to the latest build per
// release branch.
//
// Two historical spec formats are recognized:
//   - Modern: "73.1.3+g46cf800+chromium-73.0.3683.75"
//   - Legacy: "3.3578.1869.gcc1dc0f"
//
// Both are normalized into a Record whose version compares through
// versiontag, so callers never branch on the format.
package builds
