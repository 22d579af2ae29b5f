// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builds

import (
	"github.com/cefwatch/cefwatch/internal/versiontag"
)

// SelectLatest folds specs by branch and keeps the build with the greatest
// tag. On a tie the first spec seen wins.
func SelectLatest(specs []Spec) PlatformState {
	latest := make(PlatformState)
	for _, s := range specs {
		cur, ok := latest[s.Branch]
		if ok && versiontag.Compare(s.Record.Version.Tag(), cur.Version.Tag()) <= 0 {
			continue
		}
		latest[s.Branch] = s.Record
	}
	return latest
}
