// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tbl "github.com/srbutler1/hmdactl/internal/table"
)

func testTable(t *testing.T) *tbl.Table {
	t.Helper()
	in := "lei,loan_amount,state_code\n" +
		"ZEBRA,300000,NY\n" +
		"ALPHA,100000,CA\n" +
		"BETA,200000,CA\n"
	parsed, err := tbl.Read(strings.NewReader(in))
	require.NoError(t, err)
	return parsed
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		want      []Filter
		wantCount int
	}{
		{
			name:      "empty spec",
			spec:      "",
			wantCount: 0,
		},
		{
			name:      "single exact match filter",
			spec:      "state_code=CA",
			wantCount: 1,
			want: []Filter{
				{Key: "state_code", Operand: "=", Target: "CA", Negate: false},
			},
		},
		{
			name:      "prefix match filter",
			spec:      "lei^AL",
			wantCount: 1,
			want: []Filter{
				{Key: "lei", Operand: "^", Target: "AL", Negate: false},
			},
		},
		{
			name:      "negated exact match",
			spec:      "state_code!=NY",
			wantCount: 1,
			want: []Filter{
				{Key: "state_code", Operand: "=", Target: "NY", Negate: true},
			},
		},
		{
			name:      "multiple filters",
			spec:      "state_code=CA,loan_amount>150000",
			wantCount: 2,
			want: []Filter{
				{Key: "state_code", Operand: "=", Target: "CA", Negate: false},
				{Key: "loan_amount", Operand: ">", Target: "150000", Negate: false},
			},
		},
		{
			name:      "invalid filter skipped",
			spec:      "state_code=CA,junk",
			wantCount: 1,
			want: []Filter{
				{Key: "state_code", Operand: "=", Target: "CA", Negate: false},
			},
		},
		{
			name:      "regex operand",
			spec:      "lei/^(AL|BE)",
			wantCount: 1,
			want: []Filter{
				{Key: "lei", Operand: "/", Target: "^(AL|BE)", Negate: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFilters(tt.spec)
			assert.Len(t, got, tt.wantCount)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFilterTable(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantLeis []string
	}{
		{
			name:     "no filter keeps all",
			spec:     "",
			wantLeis: []string{"ZEBRA", "ALPHA", "BETA"},
		},
		{
			name:     "exact match",
			spec:     "state_code=CA",
			wantLeis: []string{"ALPHA", "BETA"},
		},
		{
			name:     "negated match",
			spec:     "state_code!=CA",
			wantLeis: []string{"ZEBRA"},
		},
		{
			name:     "numeric greater than",
			spec:     "loan_amount>150000",
			wantLeis: []string{"ZEBRA", "BETA"},
		},
		{
			name:     "numeric less than",
			spec:     "loan_amount<150000",
			wantLeis: []string{"ALPHA"},
		},
		{
			name:     "combined filters",
			spec:     "state_code=CA,loan_amount>150000",
			wantLeis: []string{"BETA"},
		},
		{
			name:     "contains",
			spec:     "lei@ET",
			wantLeis: []string{"BETA"},
		},
		{
			name:     "regex",
			spec:     "lei/^(AL|BE)",
			wantLeis: []string{"ALPHA", "BETA"},
		},
		{
			name:     "unknown key skipped",
			spec:     "bogus=1",
			wantLeis: []string{"ZEBRA", "ALPHA", "BETA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTable(testTable(t), tt.spec)
			var leis []string
			for i := 0; i < got.Len(); i++ {
				v, _ := got.Get(i, "lei")
				leis = append(leis, v)
			}
			assert.Equal(t, tt.wantLeis, leis)
		})
	}
}

func TestSortTable(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by lei",
			spec:      "lei",
			wantOrder: []string{"ALPHA", "BETA", "ZEBRA"},
		},
		{
			name:      "descending by lei",
			spec:      "-lei",
			wantOrder: []string{"ZEBRA", "BETA", "ALPHA"},
		},
		{
			name:      "numeric ascending",
			spec:      "loan_amount",
			wantOrder: []string{"ALPHA", "BETA", "ZEBRA"},
		},
		{
			name:      "numeric descending",
			spec:      "-loan_amount",
			wantOrder: []string{"ZEBRA", "BETA", "ALPHA"},
		},
		{
			name:      "multiple columns",
			spec:      "state_code,-loan_amount",
			wantOrder: []string{"BETA", "ALPHA", "ZEBRA"},
		},
		{
			name:      "empty spec keeps order",
			spec:      "",
			wantOrder: []string{"ZEBRA", "ALPHA", "BETA"},
		},
		{
			name:      "unknown column keeps order",
			spec:      "bogus",
			wantOrder: []string{"ZEBRA", "ALPHA", "BETA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortTable(testTable(t), tt.spec)
			for i, want := range tt.wantOrder {
				v, _ := got.Get(i, "lei")
				assert.Equal(t, want, v, "at index %d", i)
			}
		})
	}
}

func TestSelectColumns(t *testing.T) {
	got := SelectColumns(testTable(t), "state_code,lei")
	assert.Equal(t, []string{"state_code", "lei"}, got.Columns())
	assert.Equal(t, 3, got.Len())

	v, _ := got.Get(0, "state_code")
	assert.Equal(t, "NY", v)

	// All-unknown spec leaves the table untouched.
	same := SelectColumns(testTable(t), "nope")
	assert.Equal(t, []string{"lei", "loan_amount", "state_code"}, same.Columns())
}
