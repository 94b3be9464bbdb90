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

	"github.com/srbutler1/hmdactl/internal/analysis"
	"github.com/srbutler1/hmdactl/internal/cacheutil"
	"github.com/srbutler1/hmdactl/internal/census"
	"github.com/srbutler1/hmdactl/internal/config"
	"github.com/srbutler1/hmdactl/internal/hmda"
	"github.com/srbutler1/hmdactl/internal/meta"
	"github.com/srbutler1/hmdactl/internal/output"
	"github.com/srbutler1/hmdactl/internal/table"
)

// AqCommandAction is the action handler for the "aq" subcommand: lending
// pattern analysis over a loan-data result set. The fetch goes through the
// same cached path as lq; --by selects the report.
func AqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "aq"

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

	useCache := cmd.Bool("cache") && cacheutil.Enabled()
	data, err := client.LoanData(ctx, q, useCache)
	if err != nil {
		return err
	}

	var result *table.Table
	switch by := cmd.String("by"); by {
	case "denial":
		result, err = analysis.DenialPatterns(data)
	case "race", "ethnicity", "sex":
		result, err = analysis.Demographics(data, by)
	case "levels":
		var src census.Source
		src, err = census.ResolveSource(cmd.String("census-file"))
		if err != nil {
			return err
		}
		var analyzer *census.Analyzer
		analyzer, err = census.Load(ctx, src)
		if err != nil {
			return err
		}
		result, err = analysis.IncomeLevelPatterns(data, analyzer)
	case "qc":
		result, err = analysis.QualityControl(data)
	case "validate":
		result = analysis.Validate(data)
	default:
		result, err = analysis.ApprovalPatterns(data)
	}
	if err != nil {
		return err
	}

	return output.SliceDiceSpit(result, cmd, os.Stdout)
}

// AqCommandBuilder constructs the cli.Command for "aq".
func AqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "aq",
		Usage:     "analysis query",
		UsageText: `hmdactl aq --year 2023 --states CA --by denial [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "by",
				Usage: "report to compute: approval, denial, race, ethnicity, sex, levels, qc, validate",
				Value: "approval",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("aq.by", altsrc.StringSourcer(meta.Config.Source)),
				),
				Validator: func(value string) error {
					return FlagValidators(value, AnalysisByValidator)
				},
			},
			&cli.BoolWithInverseFlag{
				Name:  "cache",
				Usage: "serve repeat queries from the local cache",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("aq.cache", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: true,
			},
			&cli.StringFlag{
				Name:  "census-file",
				Usage: "census flat file for --by levels (path or s3://bucket/key)",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("HMDACTL_CENSUS_FILE"),
					yaml.YAML("aq.census_file", altsrc.StringSourcer(meta.Config.Source)),
					yaml.YAML("census_file", altsrc.StringSourcer(meta.Config.Source)),
				),
			},
			&cli.StringSliceFlag{
				Name:    "where",
				Aliases: []string{"W"},
				Usage:   "Data Browser filter as name=value[,value] (repeatable)",
			},
			NewHostFlag("aq"),
			NewMSAMDsFlag("aq"),
			NewStatesFlag("aq"),
			NewYearFlag("aq"),
		}, NewGlobalFlags("aq")...),
		Action: AqCommandAction,
	}
}
