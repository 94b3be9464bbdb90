// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/srbutler1/hmdactl/internal/table"
)

// SortTable orders rows by the comma-separated column spec. A leading '-'
// reverses that column. Values that parse as numbers on both sides compare
// numerically, everything else lexically. Unknown columns are reported and
// skipped. The sort is stable so earlier spec columns dominate.
func SortTable(t *table.Table, spec string) *table.Table {
	if spec == "" || t.Len() < 2 {
		return t
	}

	type sortKey struct {
		index      int
		descending bool
	}

	//nolint:prealloc
	var keys []sortKey
	for _, col := range strings.Split(spec, ",") {
		col = strings.TrimSpace(col)
		descending := strings.HasPrefix(col, "-")
		col = strings.TrimPrefix(col, "-")
		idx, ok := t.ColumnIndex(col)
		if !ok {
			log.Error("sort key not found: " + col)
			continue
		}
		keys = append(keys, sortKey{index: idx, descending: descending})
	}
	if len(keys) == 0 {
		return t
	}

	result := table.New(t.Columns())
	for i := 0; i < t.Len(); i++ {
		_ = result.Append(t.Row(i))
	}

	rows := result.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range keys {
			a, b := rows[i][key.index], rows[j][key.index]
			if a == b {
				continue
			}
			less := compareValues(a, b)
			if key.descending {
				return !less
			}
			return less
		}
		return false
	})

	return result
}

// compareValues reports a < b, numerically when both sides parse as numbers.
func compareValues(a, b string) bool {
	na, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	nb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
