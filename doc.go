// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// hmdactl is the main package for the hmdactl command line tool. It wires the
// CLI, delegates to internal packages, and serves as the entry point.
package main
