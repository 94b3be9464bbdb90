// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/srbutler1/hmdactl/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// NewGlobalFlags constructs the flags shared by every query command,
// namespaced to ns for config-file value sources.
func NewGlobalFlags(ns string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "columns",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of columns to include in results",
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewHostFlag constructs the "host" flag overriding the Data Browser API
// base URL. Empty means the public endpoint.
func NewHostFlag(ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "host",
		Usage: "Data Browser API base URL override",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("HMDACTL_HOST"),
			yaml.YAML(ns+"."+"host", altsrc.StringSourcer(cfg.Source)),
			yaml.YAML("host", altsrc.StringSourcer(cfg.Source)),
		),
	}
}

// NewYearFlag constructs the required filing-year flag. The Data Browser
// serves 2018 onwards, so earlier years are rejected here at the boundary.
func NewYearFlag(ns string) *cli.IntFlag {
	return &cli.IntFlag{
		Name:     "year",
		Aliases:  []string{"y"},
		Usage:    "filing year to query (2018 onwards)",
		Required: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("HMDACTL_YEAR"),
			yaml.YAML(ns+"."+"year", altsrc.StringSourcer(cfg.Source)),
		),
		Validator: func(value int) error {
			return FlagValidators(value, YearValidator)
		},
	}
}

// NewStatesFlag constructs the comma-separated state-codes flag.
func NewStatesFlag(ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "states",
		Usage: "comma-separated list of state codes (e.g. CA,NY)",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+"."+"states", altsrc.StringSourcer(cfg.Source)),
		),
	}
}

// NewMSAMDsFlag constructs the comma-separated MSA/MD-codes flag.
func NewMSAMDsFlag(ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "msamds",
		Usage: "comma-separated list of MSA/MD codes",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+"."+"msamds", altsrc.StringSourcer(cfg.Source)),
		),
	}
}
