// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/srbutler1/hmdactl/internal/config"
	"github.com/srbutler1/hmdactl/internal/meta"
	"github.com/srbutler1/hmdactl/internal/output"
)

// FqCommandAction is the action handler for the "fq" subcommand: list the
// institutions that filed for a year and geography. Always a live call; the
// fetch cache is never involved.
func FqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "fq"

	client, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	result, err := client.Filers(ctx,
		cmd.Int("year"),
		SplitList(cmd.String("states")),
		SplitList(cmd.String("msamds")))
	if err != nil {
		return err
	}

	return output.SliceDiceSpit(result, cmd, os.Stdout)
}

// FqCommandBuilder constructs the cli.Command for "fq".
func FqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "fq",
		Usage:     "filer query",
		UsageText: `hmdactl fq --year 2023 [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewHostFlag("fq"),
			NewMSAMDsFlag("fq"),
			NewStatesFlag("fq"),
			NewYearFlag("fq"),
		}, NewGlobalFlags("fq")...),
		Action: FqCommandAction,
	}
}
