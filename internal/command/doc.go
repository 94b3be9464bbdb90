// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// Package command defines the hmdactl CLI: the lq/fq/dq query commands,
// cache maintenance, shell completion, and their shared flags.
package command
