// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package listing retrieves the CEF build listing document and extracts the
// raw build specifications published for each platform.
//
// The listing holds one table per platform, identified by its id attribute.
// Each build is a "toprow" row whose data-version attribute carries the raw
// build specification.
package listing
