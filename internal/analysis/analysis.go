// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// Package analysis computes lending-pattern reports over loan-level result
// tables: approval and denial rates, demographic breakdowns, and census
// income-level joins. Every report is table-in/table-out so the output
// pipeline can slice it like any other result set.
package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/srbutler1/hmdactl/internal/census"
	"github.com/srbutler1/hmdactl/internal/table"
)

// Data Browser action_taken codes used across reports.
const (
	actionOriginated = "1"
	actionDenied     = "3"
	actionWithdrawn  = "4"
	actionIncomplete = "5"
)

// loanTypeNames maps loan_type codes to their names.
var loanTypeNames = map[string]string{
	"1": "Conventional",
	"2": "FHA",
	"3": "VA",
	"4": "USDA/FSA",
}

// denialReasonNames maps denial_reason codes to their names. Codes outside
// the map (1111 exempt, blanks) are skipped.
var denialReasonNames = map[string]string{
	"1": "Debt-to-income ratio",
	"2": "Employment history",
	"3": "Credit history",
	"4": "Collateral",
	"5": "Insufficient cash",
	"6": "Unverifiable information",
	"7": "Credit application incomplete",
	"8": "Mortgage insurance denied",
	"9": "Other",
}

// incomeBrackets partitions applicant income for approval-rate segmentation.
var incomeBrackets = []struct {
	label string
	upper float64
}{
	{"<50k", 50000},
	{"50k-100k", 100000},
	{"100k-150k", 150000},
	{">150k", 0}, // open-ended
}

// ApprovalPatterns reports origination rates overall, per loan type, and per
// applicant income bracket. Segments with no applications are omitted.
func ApprovalPatterns(t *table.Table) (*table.Table, error) {
	if _, ok := t.ColumnIndex("action_taken"); !ok {
		return nil, fmt.Errorf("approval analysis needs an action_taken column")
	}

	result := table.New([]string{"group", "segment", "applications", "approval_rate"})

	total, approved := 0, 0
	for i := 0; i < t.Len(); i++ {
		action, _ := t.Get(i, "action_taken")
		total++
		if action == actionOriginated {
			approved++
		}
	}
	_ = result.Append([]string{"overall", "", strconv.Itoa(total), formatRate(approved, total)})

	if _, ok := t.ColumnIndex("loan_type"); ok {
		counts := map[string]int{}
		approvals := map[string]int{}
		for i := 0; i < t.Len(); i++ {
			code, _ := t.Get(i, "loan_type")
			name, known := loanTypeNames[strings.TrimSpace(code)]
			if !known {
				continue
			}
			counts[name]++
			if action, _ := t.Get(i, "action_taken"); action == actionOriginated {
				approvals[name]++
			}
		}
		for _, code := range []string{"1", "2", "3", "4"} {
			name := loanTypeNames[code]
			if counts[name] > 0 {
				_ = result.Append([]string{
					"loan_type", name,
					strconv.Itoa(counts[name]),
					formatRate(approvals[name], counts[name]),
				})
			}
		}
	}

	if _, ok := t.ColumnIndex("income"); ok {
		counts := make([]int, len(incomeBrackets))
		approvals := make([]int, len(incomeBrackets))
		for i := 0; i < t.Len(); i++ {
			raw, _ := t.Get(i, "income")
			income, ok := parseFloat(raw)
			if !ok || income <= 0 {
				continue
			}
			b := bracketIndex(income)
			counts[b]++
			if action, _ := t.Get(i, "action_taken"); action == actionOriginated {
				approvals[b]++
			}
		}
		for b, bracket := range incomeBrackets {
			if counts[b] > 0 {
				_ = result.Append([]string{
					"income_bracket", bracket.label,
					strconv.Itoa(counts[b]),
					formatRate(approvals[b], counts[b]),
				})
			}
		}
	}

	return result, nil
}

// DenialPatterns reports the overall denial rate plus the distribution of
// cited denial reasons across the denial_reason-N columns of denied
// applications. Reason shares are of total citations, not applications.
func DenialPatterns(t *table.Table) (*table.Table, error) {
	if _, ok := t.ColumnIndex("action_taken"); !ok {
		return nil, fmt.Errorf("denial analysis needs an action_taken column")
	}

	var reasonCols []string
	for _, col := range t.Columns() {
		if strings.HasPrefix(col, "denial_reason") {
			reasonCols = append(reasonCols, col)
		}
	}

	total, denied := 0, 0
	reasonCounts := map[string]int{}
	citations := 0
	for i := 0; i < t.Len(); i++ {
		total++
		action, _ := t.Get(i, "action_taken")
		if action != actionDenied {
			continue
		}
		denied++
		for _, col := range reasonCols {
			code, _ := t.Get(i, col)
			name, known := denialReasonNames[strings.TrimSpace(code)]
			if !known {
				continue
			}
			reasonCounts[name]++
			citations++
		}
	}

	result := table.New([]string{"group", "segment", "count", "rate"})
	_ = result.Append([]string{"overall", "", strconv.Itoa(denied), formatRate(denied, total)})

	for _, code := range sortedKeys(denialReasonNames) {
		name := denialReasonNames[code]
		if n := reasonCounts[name]; n > 0 {
			_ = result.Append([]string{"reason", name, strconv.Itoa(n), formatRate(n, citations)})
		}
	}

	return result, nil
}

// Demographics reports per-segment application counts, approval rates, and
// median loan amount/income for one derived demographic field: "race",
// "ethnicity", or "sex".
func Demographics(t *table.Table, field string) (*table.Table, error) {
	col := "derived_" + field
	if _, ok := t.ColumnIndex(col); !ok {
		return nil, fmt.Errorf("demographic analysis needs a %s column", col)
	}
	if _, ok := t.ColumnIndex("action_taken"); !ok {
		return nil, fmt.Errorf("demographic analysis needs an action_taken column")
	}

	counts := map[string]int{}
	approvals := map[string]int{}
	amounts := map[string][]float64{}
	incomes := map[string][]float64{}

	for i := 0; i < t.Len(); i++ {
		segment, _ := t.Get(i, col)
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		counts[segment]++
		if action, _ := t.Get(i, "action_taken"); action == actionOriginated {
			approvals[segment]++
		}
		if raw, ok := t.Get(i, "loan_amount"); ok {
			if v, ok := parseFloat(raw); ok {
				amounts[segment] = append(amounts[segment], v)
			}
		}
		if raw, ok := t.Get(i, "income"); ok {
			if v, ok := parseFloat(raw); ok {
				incomes[segment] = append(incomes[segment], v)
			}
		}
	}

	var segments []string
	for segment := range counts {
		segments = append(segments, segment)
	}
	sort.Strings(segments)

	result := table.New([]string{
		"segment", "applications", "approval_rate", "median_loan_amount", "median_income"})
	for _, segment := range segments {
		_ = result.Append([]string{
			segment,
			strconv.Itoa(counts[segment]),
			formatRate(approvals[segment], counts[segment]),
			formatFloat(median(amounts[segment])),
			formatFloat(median(incomes[segment])),
		})
	}
	return result, nil
}

// incomeLevelOrder fixes the row order of the census join report.
var incomeLevelOrder = []string{"Low", "Moderate", "Middle", "Upper", "Not Known"}

// IncomeLevelPatterns joins loan rows to FFIEC tract income levels through
// the census analyzer and reports applications, approval rate, and median
// loan amount per level. Rows whose tract is absent from the census file
// fall under "Not Known".
func IncomeLevelPatterns(t *table.Table, a *census.Analyzer) (*table.Table, error) {
	if _, ok := t.ColumnIndex("census_tract"); !ok {
		return nil, fmt.Errorf("income-level analysis needs a census_tract column")
	}
	if _, ok := t.ColumnIndex("action_taken"); !ok {
		return nil, fmt.Errorf("income-level analysis needs an action_taken column")
	}

	counts := map[string]int{}
	approvals := map[string]int{}
	amounts := map[string][]float64{}

	for i := 0; i < t.Len(); i++ {
		tract, _ := t.Get(i, "census_tract")
		level, ok := a.TractIncomeLevel(strings.TrimSpace(tract))
		if !ok {
			level = "Not Known"
		}
		counts[level]++
		if action, _ := t.Get(i, "action_taken"); action == actionOriginated {
			approvals[level]++
		}
		if raw, ok := t.Get(i, "loan_amount"); ok {
			if v, ok := parseFloat(raw); ok {
				amounts[level] = append(amounts[level], v)
			}
		}
	}

	result := table.New([]string{
		"income_level", "applications", "approval_rate", "median_loan_amount"})
	for _, level := range incomeLevelOrder {
		if counts[level] > 0 {
			_ = result.Append([]string{
				level,
				strconv.Itoa(counts[level]),
				formatRate(approvals[level], counts[level]),
				formatFloat(median(amounts[level])),
			})
		}
	}
	return result, nil
}

func bracketIndex(income float64) int {
	for i, bracket := range incomeBrackets {
		if bracket.upper > 0 && income <= bracket.upper {
			return i
		}
	}
	return len(incomeBrackets) - 1
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseFloat tolerates the flat files' NA/Exempt placeholders by reporting
// them as unparseable rather than erroring.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatRate(part, whole int) string {
	if whole == 0 {
		return "0.0000"
	}
	return strconv.FormatFloat(float64(part)/float64(whole), 'f', 4, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
