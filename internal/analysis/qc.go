// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/srbutler1/hmdactl/internal/table"
)

// QC thresholds: denial/withdrawal rates above these get flagged.
const (
	highDenialRate     = 0.4
	highWithdrawalRate = 0.2
)

// qcNumericFields are the fields screened for IQR outliers.
var qcNumericFields = []string{"loan_amount", "income", "rate_spread"}

// requiredColumns are the fields a loan result set must carry before
// analysis; Validate reports any that are missing.
var requiredColumns = []string{
	"action_taken",
	"loan_type",
	"loan_purpose",
	"loan_amount",
	"income",
	"state_code",
	"county_code",
	"census_tract",
	"derived_ethnicity",
	"derived_race",
	"derived_sex",
}

// QualityControl screens a loan result set for unusual patterns: outcome
// rates, IQR outliers in the numeric fields, and missing rate spreads on the
// largest loans. Each finding is one row of check/field/value.
func QualityControl(t *table.Table) (*table.Table, error) {
	if _, ok := t.ColumnIndex("action_taken"); !ok {
		return nil, fmt.Errorf("quality control needs an action_taken column")
	}

	result := table.New([]string{"check", "field", "value"})

	total := t.Len()
	outcomes := map[string]int{}
	for i := 0; i < total; i++ {
		action, _ := t.Get(i, "action_taken")
		outcomes[action]++
	}

	denialRate := ratio(outcomes[actionDenied], total)
	withdrawalRate := ratio(outcomes[actionWithdrawn], total)
	_ = result.Append([]string{"rate", "denial", formatFloat4(denialRate)})
	_ = result.Append([]string{"rate", "withdrawal", formatFloat4(withdrawalRate)})
	_ = result.Append([]string{"rate", "incomplete", formatFloat4(ratio(outcomes[actionIncomplete], total))})

	for _, field := range qcNumericFields {
		if _, ok := t.ColumnIndex(field); !ok {
			continue
		}
		vals := columnFloats(t, field)
		if len(vals) < 4 {
			continue
		}
		q1 := quantile(vals, 0.25)
		q3 := quantile(vals, 0.75)
		threshold := q3 + 1.5*(q3-q1)
		outliers := 0
		for _, v := range vals {
			if v > threshold {
				outliers++
			}
		}
		if outliers > 0 {
			_ = result.Append([]string{"outliers", field, strconv.Itoa(outliers)})
		}
	}

	if denialRate > highDenialRate {
		_ = result.Append([]string{"flag", "high_denial_rate", formatFloat4(denialRate)})
	}
	if withdrawalRate > highWithdrawalRate {
		_ = result.Append([]string{"flag", "high_withdrawal_rate", formatFloat4(withdrawalRate)})
	}

	// Large loans reported without a rate spread.
	if _, ok := t.ColumnIndex("rate_spread"); ok {
		if _, ok := t.ColumnIndex("loan_amount"); ok {
			amounts := columnFloats(t, "loan_amount")
			if len(amounts) > 0 {
				cutoff := quantile(amounts, 0.9)
				missing := 0
				for i := 0; i < t.Len(); i++ {
					raw, _ := t.Get(i, "loan_amount")
					amount, ok := parseFloat(raw)
					if !ok || amount <= cutoff {
						continue
					}
					spread, _ := t.Get(i, "rate_spread")
					if _, ok := parseFloat(spread); !ok {
						missing++
					}
				}
				if missing > 0 {
					_ = result.Append([]string{"flag", "missing_rate_spread", strconv.Itoa(missing)})
				}
			}
		}
	}

	return result, nil
}

// Validate checks a loan result set against the required column list and the
// basic value constraints: positive loan amounts and action_taken codes in
// 1..8. One row per finding; an empty table means a clean set.
func Validate(t *table.Table) *table.Table {
	result := table.New([]string{"check", "detail", "count"})

	for _, col := range requiredColumns {
		if _, ok := t.ColumnIndex(col); !ok {
			_ = result.Append([]string{"missing_column", col, "1"})
		}
	}

	if _, ok := t.ColumnIndex("loan_amount"); ok {
		bad := 0
		for i := 0; i < t.Len(); i++ {
			raw, _ := t.Get(i, "loan_amount")
			if v, ok := parseFloat(raw); !ok || v <= 0 {
				bad++
			}
		}
		if bad > 0 {
			_ = result.Append([]string{"invalid_value", "loan_amount", strconv.Itoa(bad)})
		}
	}

	if _, ok := t.ColumnIndex("action_taken"); ok {
		bad := 0
		for i := 0; i < t.Len(); i++ {
			raw, _ := t.Get(i, "action_taken")
			code, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || code < 1 || code > 8 {
				bad++
			}
		}
		if bad > 0 {
			_ = result.Append([]string{"invalid_value", "action_taken", strconv.Itoa(bad)})
		}
	}

	return result
}

func columnFloats(t *table.Table, col string) []float64 {
	var vals []float64
	for i := 0; i < t.Len(); i++ {
		raw, _ := t.Get(i, col)
		if v, ok := parseFloat(raw); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// quantile computes the pct quantile with linear interpolation between
// closest ranks.
func quantile(vals []float64, pct float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	pos := pct * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

func formatFloat4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
