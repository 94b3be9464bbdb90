// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/srbutler1/hmdactl/internal/hmda"
	"github.com/srbutler1/hmdactl/internal/meta"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewAPIClient builds the Data Browser client honoring the --host override.
func NewAPIClient(cmd *cli.Command) (*hmda.Client, error) {
	var opts []hmda.Option
	if host := cmd.String("host"); host != "" {
		opts = append(opts, hmda.WithBaseURL(host))
	}
	return hmda.NewClient(opts...)
}

// SplitList turns a comma-separated flag value into a trimmed slice,
// preserving the caller-supplied order. Order matters: the fetch cache key
// is derived from it.
func SplitList(spec string) []string {
	if spec == "" {
		return nil
	}
	//nolint:prealloc
	var items []string
	for _, item := range strings.Split(spec, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
