// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// Package cacheutil resolves and maintains the on-disk cache directory that
// holds downloaded HMDA result sets. Entries are plain CSV files named by
// their clear-text cache key; presence of the file is the only existence
// check and entries never expire on their own.
package cacheutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. HMDACTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/hmdactl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("HMDACTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "hmdactl"), true
	}
	return "", false
}

// Enabled returns true unless HMDACTL_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("HMDACTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureDir creates dir (and parents) if needed. Idempotent.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := EnsureDir(base); err != nil {
		return base, false, err
	}
	return base, true, nil
}

// EntryPath returns the absolute path where a cache entry would live for the
// clear-text key, and true if a file currently exists at that path. Keys are
// filesystem-safe by construction (year plus joined geography codes), so the
// key itself is the filename.
func EntryPath(dir, key string) (string, bool) {
	p := filepath.Join(dir, key+".csv")
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Purge removes files under dir older than the provided number of hours.
// If hours <= 0, it is a no-op. The fetch path never calls this; cache
// entries are only ever removed by explicit maintenance.
func Purge(dir string, hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}
	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(dir, func(path string, info os.FileInfo, _ error) error {
		if info == nil {
			return nil
		}
		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}

	return nil
}
