// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/srbutler1/hmdactl/internal/table"
)

// filterRegex is the pattern used to parse filter expressions into key,
// operator, and target components. It matches: key + operator + target,
// where operator can be negated with !
// Operators are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
// This allows forms like '=', '!=', '^', '!^', etc.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs (unsupported operand or malformed expression) are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	// If there are no filters specified, go home early.
	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("HMDACTL_FILTER_DELIM"); ok {
		delim = d
	}

	// Split the spec and iterate over each filter spec entry.
	filterSpecs := strings.Split(spec, delim)
	for _, filterSpec := range filterSpecs {
		parts := filterRegex.FindStringSubmatch(filterSpec)

		// If a supported operand was not found, log an error and throw it away.
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		// parts[2] is the operand. It may have a leading negation. If so, trim it
		// and just use the remainder as the working operand.
		negate := strings.HasPrefix(parts[2], "!")
		if negate {
			parts[2] = strings.TrimPrefix(parts[2], "!")
		}

		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: parts[2],
			Target:  parts[3],
		})
	}

	return filters
}

// FilterTable returns a new table containing only the rows matching all
// filters in spec. Filters naming a column the table doesn't have are
// reported and skipped rather than rejecting every row.
func FilterTable(t *table.Table, spec string) *table.Table {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return t
	}

	result := table.New(t.Columns())
	for i := 0; i < t.Len(); i++ {
		if matchRow(t, i, filters) {
			_ = result.Append(t.Row(i))
		}
	}
	return result
}

// matchRow returns true if row i passes all filters.
func matchRow(t *table.Table, i int, filters []Filter) bool {
	for _, filter := range filters {
		value, ok := t.Get(i, filter.Key)
		if !ok {
			log.Error("filter key not found: " + filter.Key)
			continue
		}

		result := true
		if num, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && isNumericOperand(filter.Operand) {
			result = checkNumericOperand(num, filter)
		} else {
			result = checkStringOperand(value, filter)
		}

		if !result {
			return false
		}
	}
	return true
}

func isNumericOperand(op string) bool {
	return op == "=" || op == ">" || op == "<"
}

// checkNumericOperand compares a numeric value against the filter target
// using numeric semantics. Falls back to string comparison when the target
// isn't numeric.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
