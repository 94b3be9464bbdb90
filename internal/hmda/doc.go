// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// Package hmda is the caching client for the HMDA Data Browser API. Loan
// data queries are memoized on disk keyed by year and geography; filer
// listings are always live. The client performs no retries: upstream,
// transport, parse and filesystem failures all surface directly to the
// caller.
package hmda
