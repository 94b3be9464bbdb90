// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_EnvOverride(t *testing.T) {
	t.Setenv("HMDACTL_CACHE_DIR", "/tmp/hmda-cache-test")
	dir, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/hmda-cache-test", dir)
}

func TestDir_Default(t *testing.T) {
	t.Setenv("HMDACTL_CACHE_DIR", "")
	dir, ok := Dir()
	if ok {
		assert.Equal(t, "hmdactl", filepath.Base(dir))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "unset means enabled", value: "", want: true},
		{name: "zero disables", value: "0", want: false},
		{name: "false disables", value: "false", want: false},
		{name: "one enables", value: "1", want: true},
		{name: "arbitrary value enables", value: "yes", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HMDACTL_CACHE", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEntryPath(t *testing.T) {
	dir := t.TempDir()

	p, exists := EntryPath(dir, "hmda_2023_states_CA")
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(dir, "hmda_2023_states_CA.csv"), p)

	require.NoError(t, os.WriteFile(p, []byte("lei\nA\n"), 0o600))

	_, exists = EntryPath(dir, "hmda_2023_states_CA")
	assert.True(t, exists)
}

func TestPurge(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.csv")
	fresh := filepath.Join(dir, "fresh.csv")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o600))

	// Backdate the old entry beyond the purge horizon.
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	require.NoError(t, Purge(dir, 24))

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestPurge_DisabledIsNoop(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.csv")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o600))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	require.NoError(t, Purge(dir, 0))

	_, err := os.Stat(old)
	assert.NoError(t, err)
}
