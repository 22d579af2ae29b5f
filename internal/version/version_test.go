// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	v, c := Version, Commit
	defer func() { Version, Commit = v, c }()

	Version, Commit = "v1.2.3", ""
	assert.Equal(t, "v1.2.3", String())

	Commit = "abc1234"
	assert.Equal(t, "v1.2.3 (abc1234)", String())
}
