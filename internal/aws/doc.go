// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// Package aws wraps AWS SDK v2 config loading and S3 client construction
// for census flat files hosted in S3.
package aws
