// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/cefwatch/cefwatch/internal/builds"
	"github.com/cefwatch/cefwatch/internal/config"
)

// NewListingFlags constructs the flags that select and parse listing builds.
// params[0] is the command namespace and params[1] the config file.
func NewListingFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "base URL of the build listing and artifacts",
			Sources: configSources(params, "base-url",
				cli.EnvVar("CEFWATCH_BASE_URL"),
			),
			Value: builds.DefaultBaseURL,
		},
		&cli.StringFlag{
			Name:  "branches",
			Usage: "comma-separated list of branches to process (default: all)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CEFWATCH_BRANCHES"),
			),
		},
		NewPlatformsFlag(),
		NewVerboseFlag(params...),
	}

	return
}

// NewPlatformsFlag constructs the --platforms flag. A config file list is
// applied by listValue since YAML lists do not map onto a string flag.
func NewPlatformsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "platforms",
		Aliases: []string{"p"},
		Usage:   "comma-separated list of platforms to process",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("CEFWATCH_PLATFORMS"),
		),
		Value: strings.Join(builds.DefaultPlatforms, ","),
	}
}

// NewStashFlags constructs the flags that locate the stored state.
func NewStashFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "disable-stash",
			Aliases: []string{"x"},
			Usage:   "neither load nor save stored state",
			Sources: configSources(params, "disable-stash",
				cli.EnvVar("CEFWATCH_DISABLE_STASH"),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:  "stash-dir",
			Usage: "directory holding stored state",
			Sources: configSources(params, "stash-dir",
				cli.EnvVar("CEFWATCH_STASH_DIR"),
			),
			Value: ".",
		},
		&cli.StringFlag{
			Name:  "s3-bucket",
			Usage: "keep stored state in this S3 bucket instead of stash-dir",
			Sources: configSources(params, "s3-bucket",
				cli.EnvVar("CEFWATCH_S3_BUCKET"),
			),
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "S3-compatible endpoint URL",
			Sources: configSources(params, "s3-endpoint",
				cli.EnvVar("CEFWATCH_S3_ENDPOINT"),
			),
		},
		&cli.StringFlag{
			Name:  "s3-prefix",
			Usage: "key prefix for stored state objects",
			Sources: configSources(params, "s3-prefix",
				cli.EnvVar("CEFWATCH_S3_PREFIX"),
			),
		},
		&cli.StringFlag{
			Name:  "s3-profile",
			Usage: "AWS shared config profile",
			Sources: configSources(params, "s3-profile",
				cli.EnvVar("CEFWATCH_S3_PROFILE"),
			),
		},
		&cli.StringFlag{
			Name:  "s3-region",
			Usage: "AWS region of the bucket",
			Sources: configSources(params, "s3-region",
				cli.EnvVar("CEFWATCH_S3_REGION"),
			),
		},
	}

	return
}

// NewOutputFlag constructs the --output flag.
func NewOutputFlag(params ...string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format (json, yaml, text)",
		Sources: configSources(params, "output",
			cli.EnvVar("CEFWATCH_OUTPUT"),
		),
		Value: "json",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
}

// NewVerboseFlag constructs the --verbose flag.
func NewVerboseFlag(params ...string) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "narrate progress on stderr",
		Sources: configSources(params, "verbose",
			cli.EnvVar("CEFWATCH_VERBOSE"),
		),
		Value: false,
	}
}

// configSources builds a source chain from env sources followed, when
// params names a namespace and a config file, by the namespaced and global
// config keys.
func configSources(params []string, name string, env ...cli.ValueSource) cli.ValueSourceChain {
	chain := cli.NewValueSourceChain(env...)
	if len(params) == 2 && params[1] != "" {
		NameSpacedValueChainFromConfigFile(params[0], params[1], name, &chain)
	}
	return chain
}

// NameSpacedValueChainFromConfigFile adds namespaced and global config file
// sources for the named flag to chain.
func NameSpacedValueChainFromConfigFile(ns string, path string, name string, chain *cli.ValueSourceChain) {
	src := yaml.YAML(ns+"."+name, altsrc.StringSourcer(path))
	chain.Chain = append(chain.Chain, src)

	src = yaml.YAML(name, altsrc.StringSourcer(path))
	chain.Chain = append(chain.Chain, src)
}

// listValue returns a comma-separated flag as a list. When the flag was not
// set on the command line or by env, a config file entry (list or comma
// string, namespaced first) takes precedence over the flag default. A config
// entry that exists but cannot be read as a list is an error.
func listValue(cmd *cli.Command, name string) ([]string, error) {
	if !cmd.IsSet(name) {
		list, err := config.GetStringSlice(name)
		switch {
		case err == nil:
			return list, nil
		case !errors.Is(err, config.ErrNotFound):
			return nil, fmt.Errorf("invalid %s in %s: %w", name, config.Config.Source, err)
		}
	}
	return config.SplitList(cmd.String(name)), nil
}
