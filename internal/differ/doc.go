// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ decides which branches carry a genuinely newer build than
// the stashed state and renders stashed-versus-current differences.
package differ
