// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/srbutler1/hmdactl/internal/cacheutil"
	"github.com/srbutler1/hmdactl/internal/config"
	"github.com/srbutler1/hmdactl/internal/hmda"
	"github.com/srbutler1/hmdactl/internal/meta"
	"github.com/srbutler1/hmdactl/internal/output"
)

// LqCommandAction is the action handler for the "lq" subcommand. It resolves
// a loan-data query through the fetch cache and emits results per common
// flags.
func LqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "lq"

	client, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	filters, err := hmda.ParseFilterSpecs(cmd.StringSlice("where"))
	if err != nil {
		return err
	}

	q := hmda.LoanQuery{
		Year:    cmd.Int("year"),
		States:  SplitList(cmd.String("states")),
		MSAMDs:  SplitList(cmd.String("msamds")),
		Filters: filters,
	}

	// HMDACTL_CACHE=0 is the environment kill switch; it overrides --cache.
	useCache := cmd.Bool("cache") && cacheutil.Enabled()
	log.Debugf("query: key=%s cache=%v", q.CacheKey(), useCache)

	result, err := client.LoanData(ctx, q, useCache)
	if err != nil {
		return err
	}

	return output.SliceDiceSpit(result, cmd, os.Stdout)
}

// LqCommandBuilder constructs the cli.Command for "lq", wiring metadata,
// flags, and action handlers.
func LqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "lq",
		Usage:     "loan query",
		UsageText: `hmdactl lq --year 2023 [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolWithInverseFlag{
				Name:  "cache",
				Usage: "serve repeat queries from the local cache",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("lq.cache", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: true,
			},
			&cli.StringSliceFlag{
				Name:    "where",
				Aliases: []string{"W"},
				Usage:   "Data Browser filter as name=value[,value] (repeatable)",
			},
			NewHostFlag("lq"),
			NewMSAMDsFlag("lq"),
			NewStatesFlag("lq"),
			NewYearFlag("lq"),
		}, NewGlobalFlags("lq")...),
		Action: LqCommandAction,
	}
}
