// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for cefwatch's user
// configuration. The configuration is an optional YAML document located by
// CEFWATCH_CFG_FILE or in the user's configuration directory:
//   - Linux: $XDG_CONFIG_HOME/cefwatch.yaml or $HOME/.config/cefwatch.yaml
//   - macOS: $HOME/Library/Application Support/cefwatch.yaml
//   - Windows: %APPDATA%/cefwatch.yaml
//
// Keys are dotted paths. Command flags look up "<command>.<flag>" first and
// then "<flag>", for example:
//
//	platforms: [linux64, windows64]
//	check:
//	  stash-dir: /var/lib/cefwatch
//	cache:
//	  ttl: 15
package config
