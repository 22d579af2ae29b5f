// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/cefwatch/cefwatch/internal/command"
	"github.com/cefwatch/cefwatch/internal/config"
	"github.com/cefwatch/cefwatch/internal/log"
	"github.com/cefwatch/cefwatch/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks the root flags for --version and returns whether it
// was handled. Scanning stops at the first non-flag argument, so a
// subcommand or listing path ends the root flags. -v is --verbose, so it is
// not treated as a version request.
func handleVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	for _, a := range args[1:] {
		if !strings.HasPrefix(a, "-") || a == "-" {
			return false
		}
		if a == "--version" {
			fmt.Println(version.String())
			return true
		}
	}
	return false
}

// handleDefaultCommand inserts "check" when no subcommand is named, so
// "cefwatch [flags] [listing]" runs a check.
func handleDefaultCommand(args []string) []string {
	if len(args) > 1 {
		switch a := args[1]; {
		case slices.Contains(command.Names, a), a == "help", a == "-h", a == "--help":
			return args
		}
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[:min(1, len(args))]...)
	out = append(out, "check")
	if len(args) > 1 {
		out = append(out, args[1:]...)
	}
	return out
}

// processSetOnly expands an @set argument into the flags listed under
// "<command>.<set>" in the config file. Each entry may hold several
// whitespace-separated words.
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}

	removeIdx := -1
	var set string
	for i, a := range args[2:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = i + 2
			break
		}
	}
	if removeIdx == -1 {
		return args
	}

	entries, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil {
		log.Warnf("argument set %s.%s not found in config", args[1], set)
		entries = nil
	}

	return expandSet(args, removeIdx, entries)
}

// expandSet replaces args[idx] with the words of entries.
func expandSet(args []string, idx int, entries []string) []string {
	var words []string
	for _, entry := range entries {
		words = append(words, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)-1+len(words))
	out = append(out, args[:idx]...)
	out = append(out, words...)
	out = append(out, args[idx+1:]...)
	return out
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleDefaultCommand(args)
	args = processSetOnly(args)
	log.Debugf("args after processing: args=%v", args)

	return initAndRunApp(args)
}
