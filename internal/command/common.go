// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/cefwatch/cefwatch/internal/config"
	"github.com/cefwatch/cefwatch/internal/listing"
	"github.com/cefwatch/cefwatch/internal/log"
	"github.com/cefwatch/cefwatch/internal/meta"
	"github.com/cefwatch/cefwatch/internal/stash"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns a Meta bound to the process streams.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd != nil && cmd.Metadata != nil {
		if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
			return m
		}
	}
	return meta.New(context.Background(), os.Args)
}

// NewStore selects the state store from the stash flags.
func NewStore(ctx context.Context, cmd *cli.Command) (stash.Store, error) {
	if cmd.Bool("disable-stash") {
		log.Debugf("stash disabled")
		return stash.Disabled{}, nil
	}

	if bucket := cmd.String("s3-bucket"); bucket != "" {
		var opts []stash.S3Option
		if v := cmd.String("s3-profile"); v != "" {
			opts = append(opts, stash.WithProfile(v))
		}
		if v := cmd.String("s3-region"); v != "" {
			opts = append(opts, stash.WithRegion(v))
		}
		if v := cmd.String("s3-endpoint"); v != "" {
			opts = append(opts, stash.WithEndpoint(v))
		}
		return stash.NewS3(ctx, bucket, cmd.String("s3-prefix"), opts...)
	}

	return stash.NewLocal(cmd.String("stash-dir")), nil
}

// NewSource returns the listing source. cache.ttl (minutes) in the config
// file bounds reuse of a cached listing page.
func NewSource(m meta.Meta) listing.Source {
	ttl, err := config.GetInt("cache.ttl", 0)
	if err != nil {
		log.WithError(err).Warnf("ignoring cache.ttl")
		ttl = 0
	}
	return listing.Source{
		CacheTTL: time.Duration(ttl) * time.Minute,
		Stdin:    m.Stdin,
	}
}

// ListingLocation returns the positional listing argument or, when absent,
// the index page under --base-url.
func ListingLocation(cmd *cli.Command) string {
	if loc := cmd.Args().First(); loc != "" {
		return loc
	}
	return listing.IndexURL(cmd.String("base-url"))
}

// ColorEnabled reports whether text output to w should be colored. The
// config key "color" overrides terminal detection.
func ColorEnabled(w io.Writer) bool {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	color, err := config.GetBool("color", tty)
	if err != nil {
		return tty
	}
	return color
}
