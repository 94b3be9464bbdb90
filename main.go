// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/srbutler1/hmdactl/internal/cacheutil"
	"github.com/srbutler1/hmdactl/internal/command"
	"github.com/srbutler1/hmdactl/internal/config"
	mylog "github.com/srbutler1/hmdactl/internal/log"
	"github.com/srbutler1/hmdactl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, _, err := cacheutil.EnsureBaseDir(); err != nil {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands an @set token (or the implicit @defaults set) into
// the arguments configured under <command>.<set> in hmdactl.yaml. The
// expansion is inserted ahead of the explicit command-line arguments so that
// anything typed by hand wins.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	defaultSet := "@defaults"

	// If an explicit @set is present, don't add the implicit default.
	for _, a := range args {
		if strings.HasPrefix(a, "@") {
			defaultSet = ""
			break
		}
	}

	workingArgs := preamble
	if defaultSet != "" {
		workingArgs = append(workingArgs, defaultSet)
	}
	if len(args) > 2 {
		workingArgs = append(workingArgs, args[2:]...)
	}
	args = workingArgs

	idx := 2
	set := "defaults"
	// Find the @set token. It marks the insertion point and is removed.
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx += i
			args = append(args[:idx], args[idx+1:]...)
			break
		}
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		parts := strings.Fields(arg)
		args = append(args[:idx], append(parts, args[idx:]...)...)
		idx += len(parts)
	}

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, args)
	return args
}
