// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package hmda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name  string
		query LoanQuery
		want  string
	}{
		{
			name:  "year only",
			query: LoanQuery{Year: 2023},
			want:  "hmda_2023",
		},
		{
			name:  "single state",
			query: LoanQuery{Year: 2023, States: []string{"CA"}},
			want:  "hmda_2023_states_CA",
		},
		{
			name:  "states and msamds",
			query: LoanQuery{Year: 2023, States: []string{"CA", "NY"}, MSAMDs: []string{"31080"}},
			want:  "hmda_2023_states_CA_NY_msamds_31080",
		},
		{
			name:  "msamds only",
			query: LoanQuery{Year: 2022, MSAMDs: []string{"31080", "35620"}},
			want:  "hmda_2022_msamds_31080_35620",
		},
		{
			name: "filters do not participate",
			query: LoanQuery{
				Year:    2023,
				States:  []string{"CA"},
				Filters: FilterSet{"loan_purposes": {"1"}},
			},
			want: "hmda_2023_states_CA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.CacheKey())
		})
	}
}

func TestCacheKey_OrderSensitive(t *testing.T) {
	a := LoanQuery{Year: 2023, States: []string{"CA", "NY"}}
	b := LoanQuery{Year: 2023, States: []string{"NY", "CA"}}
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())
}

func TestCacheKey_MSAMDsDistinguish(t *testing.T) {
	a := LoanQuery{Year: 2023, States: []string{"CA"}}
	b := LoanQuery{Year: 2023, States: []string{"CA"}, MSAMDs: []string{"31080"}}
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())
}

func TestParams(t *testing.T) {
	fs := FilterSet{}
	require.NoError(t, fs.Set("loan_purposes", "1", "2"))
	require.NoError(t, fs.Set("actions_taken", "1"))

	q := LoanQuery{
		Year:    2023,
		States:  []string{"CA", "NY"},
		MSAMDs:  []string{"31080"},
		Filters: fs,
	}

	params := q.params()
	assert.Equal(t, "2023", params.Get("years"))
	assert.Equal(t, "CA,NY", params.Get("states"))
	assert.Equal(t, "31080", params.Get("msamds"))
	assert.Equal(t, "1,2", params.Get("loan_purposes"))
	assert.Equal(t, "1", params.Get("actions_taken"))
}

func TestParams_OmitsEmptyGeography(t *testing.T) {
	params := LoanQuery{Year: 2023}.params()
	assert.Equal(t, "2023", params.Get("years"))
	assert.False(t, params.Has("states"))
	assert.False(t, params.Has("msamds"))
}

func TestValidate(t *testing.T) {
	err := LoanQuery{}.validate()
	assert.ErrorIs(t, err, ErrYearRequired)

	assert.NoError(t, LoanQuery{Year: 2018}.validate())
}
