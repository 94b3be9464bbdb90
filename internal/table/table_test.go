// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols []string
		wantRows int
		wantErr  bool
	}{
		{
			name:     "simple document",
			input:    "lei,loan_amount\nABC,100000\nDEF,250000\n",
			wantCols: []string{"lei", "loan_amount"},
			wantRows: 2,
		},
		{
			name:     "header only",
			input:    "lei,loan_amount\n",
			wantCols: []string{"lei", "loan_amount"},
			wantRows: 0,
		},
		{
			name:     "short row padded",
			input:    "a,b,c\n1,2\n",
			wantCols: []string{"a", "b", "c"},
			wantRows: 1,
		},
		{
			name:    "long row rejected",
			input:   "a,b\n1,2,3\n",
			wantErr: true,
		},
		{
			name:    "empty document",
			input:   "",
			wantErr: true,
		},
		{
			name:    "malformed quoting",
			input:   "a,b\n\"unterminated,2\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, tbl.Columns())
			assert.Equal(t, tt.wantRows, tbl.Len())
		})
	}
}

func TestGet(t *testing.T) {
	tbl, err := Read(strings.NewReader("lei,state\nABC,CA\nDEF,NY\n"))
	require.NoError(t, err)

	v, ok := tbl.Get(1, "state")
	assert.True(t, ok)
	assert.Equal(t, "NY", v)

	_, ok = tbl.Get(0, "missing")
	assert.False(t, ok)

	_, ok = tbl.Get(5, "state")
	assert.False(t, ok)
}

func TestAppend_ArityChecked(t *testing.T) {
	tbl := New([]string{"a", "b"})
	require.NoError(t, tbl.Append([]string{"1", "2"}))
	assert.Error(t, tbl.Append([]string{"1"}))
	assert.Equal(t, 1, tbl.Len())
}

func TestFromRecords(t *testing.T) {
	tbl := FromRecords([]string{"lei", "name"}, []map[string]string{
		{"lei": "ABC", "name": "First Bank"},
		{"lei": "DEF"},
	})
	assert.Equal(t, 2, tbl.Len())

	v, _ := tbl.Get(1, "name")
	assert.Equal(t, "", v)
}

func TestWrite_RoundTrip(t *testing.T) {
	tbl, err := Read(strings.NewReader("lei,amount\nABC,100\nDEF,200\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(again))
}

func TestWriteFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	tbl := New([]string{"a"})
	require.NoError(t, tbl.Append([]string{"1"}))
	require.NoError(t, tbl.WriteFile(path))

	// No staging leftovers.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	again, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(again))
}
