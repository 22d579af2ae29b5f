// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"
	"io"
	"os"

	"github.com/cefwatch/cefwatch/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI
// arguments, loaded configuration, context and the output streams. Results
// go to Stdout; diagnostics go to Stderr.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
}

// New returns a Meta bound to the process streams.
func New(ctx context.Context, args []string) Meta {
	return Meta{
		Args:    args,
		Config:  config.Config,
		Context: ctx,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
	}
}
