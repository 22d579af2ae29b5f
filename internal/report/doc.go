// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package report aggregates per-platform updates into a single result and
// renders it as JSON, YAML or a text table.
package report
