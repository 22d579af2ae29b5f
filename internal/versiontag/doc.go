// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package versiontag models dotted release versions such as "73.1.3" and
// orders them by the numeric value of each component. Trailing zero
// components carry no weight, so "1.2", "1.2.0" and "1.2.0.0" are equal.
package versiontag
