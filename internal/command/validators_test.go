// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "csv", "json", "yaml", "raw"} {
		assert.NoError(t, OutputValidator(v), v)
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestAnalysisByValidator(t *testing.T) {
	for _, v := range []string{"approval", "denial", "race", "ethnicity", "sex", "levels", "qc", "validate"} {
		assert.NoError(t, AnalysisByValidator(v), v)
	}
	assert.Error(t, AnalysisByValidator("trends"))
	assert.Error(t, AnalysisByValidator(""))
}

func TestYearValidator(t *testing.T) {
	assert.NoError(t, YearValidator(2018))
	assert.NoError(t, YearValidator(2023))
	assert.Error(t, YearValidator(2017))
	assert.Error(t, YearValidator("2023"))
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []string
	}{
		{name: "empty", spec: "", want: nil},
		{name: "single", spec: "CA", want: []string{"CA"}},
		{name: "order preserved", spec: "NY,CA", want: []string{"NY", "CA"}},
		{name: "whitespace trimmed", spec: " CA , NY ", want: []string{"CA", "NY"}},
		{name: "empty entries dropped", spec: "CA,,NY,", want: []string{"CA", "NY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.spec))
		})
	}
}
