// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package version

// Version is stamped at build time via -ldflags.
var Version = "dev"
