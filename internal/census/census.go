// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// Package census analyzes FFIEC census flat files alongside HMDA lending
// data: per-tract demographics and income-level classification.
package census

import (
	"context"
	"fmt"
	"strconv"

	"github.com/apex/log"

	"github.com/srbutler1/hmdactl/internal/table"
)

// tractColumn identifies a census tract in the FFIEC flat file.
const tractColumn = "census_tract"

// incomeColumn is the tract-to-MSA/MD median family income percentage.
const incomeColumn = "tract_to_msa_income_percentage"

// demographicColumns are the fields surfaced for a tract lookup, in output
// order. Columns absent from the loaded file are skipped.
var demographicColumns = []string{
	tractColumn,
	"tract_population",
	"tract_minority_population_percent",
	"ffiec_msa_md_median_family_income",
	incomeColumn,
	"tract_below_poverty_line_percent",
	"tract_owner_occupied_units",
	"tract_one_to_four_family_homes",
	"tract_median_age_of_housing_units",
	"tract_total_housing_units",
	"tract_vacant_units",
	"tract_renter_occupied_units",
	"tract_inside_principal_city",
}

// Analyzer answers demographic questions against a loaded census flat file.
type Analyzer struct {
	data *table.Table
}

// Load reads the flat file from src and returns an Analyzer over it.
func Load(ctx context.Context, src Source) (*Analyzer, error) {
	r, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := table.Read(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse census file %s: %w", src, err)
	}

	if _, ok := data.ColumnIndex(tractColumn); !ok {
		return nil, fmt.Errorf("census file %s has no %s column", src, tractColumn)
	}

	log.Debugf("loaded census data: %d tracts from %s", data.Len(), src)
	return &Analyzer{data: data}, nil
}

// Tracts returns the number of tracts loaded.
func (a *Analyzer) Tracts() int {
	return a.data.Len()
}

// TractDemographics returns the demographic fields for one census tract as a
// single-row table, including the FFIEC income-level classification.
func (a *Analyzer) TractDemographics(tractID string) (*table.Table, error) {
	row := -1
	for i := 0; i < a.data.Len(); i++ {
		if v, _ := a.data.Get(i, tractColumn); v == tractID {
			row = i
			break
		}
	}
	if row < 0 {
		return nil, fmt.Errorf("census tract %s not found", tractID)
	}

	var columns []string
	var values []string
	for _, col := range demographicColumns {
		if v, ok := a.data.Get(row, col); ok {
			columns = append(columns, col)
			values = append(values, v)
		}
	}
	columns = append(columns, "tract_income_level")
	values = append(values, IncomeLevel(a.incomePercent(row)))

	result := table.New(columns)
	if err := result.Append(values); err != nil {
		return nil, err
	}
	return result, nil
}

// IncomeLevelCounts summarizes the loaded tracts per FFIEC income level,
// returned as a two-column table in classification order.
func (a *Analyzer) IncomeLevelCounts() *table.Table {
	counts := map[string]int{}
	for i := 0; i < a.data.Len(); i++ {
		counts[IncomeLevel(a.incomePercent(i))]++
	}

	result := table.New([]string{"income_level", "tracts"})
	for _, level := range []string{"Low", "Moderate", "Middle", "Upper", "Not Known"} {
		if n, ok := counts[level]; ok {
			_ = result.Append([]string{level, strconv.Itoa(n)})
		}
	}
	return result
}

// TractIncomeLevel returns the FFIEC income level for one tract, or false
// when the tract is not in the loaded file.
func (a *Analyzer) TractIncomeLevel(tractID string) (string, bool) {
	for i := 0; i < a.data.Len(); i++ {
		if v, _ := a.data.Get(i, tractColumn); v == tractID {
			return IncomeLevel(a.incomePercent(i)), true
		}
	}
	return "", false
}

func (a *Analyzer) incomePercent(row int) float64 {
	v, ok := a.data.Get(row, incomeColumn)
	if !ok {
		return 0
	}
	pct, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return pct
}

// IncomeLevel classifies a tract-to-MSA/MD median family income percentage
// into the FFIEC income levels. Zero means the percentage is not known.
func IncomeLevel(pct float64) string {
	switch {
	case pct == 0:
		return "Not Known"
	case pct < 50:
		return "Low"
	case pct < 80:
		return "Moderate"
	case pct < 120:
		return "Middle"
	default:
		return "Upper"
	}
}
