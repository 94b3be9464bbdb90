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

	"github.com/srbutler1/hmdactl/internal/census"
	"github.com/srbutler1/hmdactl/internal/config"
	"github.com/srbutler1/hmdactl/internal/meta"
	"github.com/srbutler1/hmdactl/internal/output"
	"github.com/srbutler1/hmdactl/internal/table"
)

// DqCommandAction is the action handler for the "dq" subcommand: demographic
// queries against the FFIEC census flat file (local path or s3:// object).
func DqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "dq"

	src, err := census.ResolveSource(cmd.String("census-file"))
	if err != nil {
		return err
	}

	analyzer, err := census.Load(ctx, src)
	if err != nil {
		return err
	}

	var result *table.Table
	if tract := cmd.String("tract"); tract != "" && !cmd.Bool("levels") {
		result, err = analyzer.TractDemographics(tract)
		if err != nil {
			return err
		}
	} else {
		result = analyzer.IncomeLevelCounts()
	}

	return output.SliceDiceSpit(result, cmd, os.Stdout)
}

// DqCommandBuilder constructs the cli.Command for "dq".
func DqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "dq",
		Usage:     "demographics query",
		UsageText: `hmdactl dq --tract 06037101110 [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "census-file",
				Usage: "census flat file location (path or s3://bucket/key)",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("HMDACTL_CENSUS_FILE"),
					yaml.YAML("dq.census_file", altsrc.StringSourcer(meta.Config.Source)),
					yaml.YAML("census_file", altsrc.StringSourcer(meta.Config.Source)),
				),
			},
			&cli.StringFlag{
				Name:  "tract",
				Usage: "census tract to describe; omit for an income-level summary",
			},
			&cli.BoolFlag{
				Name:  "levels",
				Usage: "summarize tract counts by income level",
			},
		}, NewGlobalFlags("dq")...),
		Action: DqCommandAction,
	}
}
