// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// Package output slices, filters, sorts and renders result tables per the
// common command flags.
package output
