// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	humanize "github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/srbutler1/hmdactl/internal/cacheutil"
	"github.com/srbutler1/hmdactl/internal/config"
	"github.com/srbutler1/hmdactl/internal/meta"
	"github.com/srbutler1/hmdactl/internal/output"
	"github.com/srbutler1/hmdactl/internal/table"
)

// CacheCommandAction lists the fetch-cache entries, or purges entries older
// than --purge hours. Cached result sets never expire on their own; this is
// the manual intervention path.
func CacheCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "cache"

	dir, ok := cacheutil.Dir()
	if !ok {
		return fmt.Errorf("failed to resolve cache directory")
	}

	if hours := cmd.Int("purge"); hours > 0 {
		return cacheutil.Purge(dir, hours)
	}

	result := table.New([]string{"entry", "size", "age"})

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		_ = result.Append([]string{
			strings.TrimSuffix(e.Name(), ".csv"),
			humanize.Bytes(uint64(info.Size())),
			humanize.Time(info.ModTime()),
		})
	}

	return output.SliceDiceSpit(result, cmd, os.Stdout)
}

// CacheCommandBuilder constructs the cli.Command for "cache".
func CacheCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "cache",
		Usage:     "inspect or purge the fetch cache",
		UsageText: `hmdactl cache [--purge hours] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "purge",
				Usage: "remove entries older than this many hours",
			},
		}, NewGlobalFlags("cache")...),
		Action: CacheCommandAction,
	}
}
