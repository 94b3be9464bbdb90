// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package hmda

import (
	"net/url"
	"strconv"
	"strings"
)

// LoanQuery describes one loan-data retrieval: a filing year, optional state
// codes, optional MSA/MD codes, and optional Data Browser filters. The zero
// value of the slices means "no geography restriction".
type LoanQuery struct {
	Year    int
	States  []string
	MSAMDs  []string
	Filters FilterSet
}

// CacheKey derives the deterministic on-disk identity of this query.
// Geography lists are joined in caller-supplied order: ["CA","NY"] and
// ["NY","CA"] are distinct entries. That order sensitivity is intentional
// and covered by tests; callers wanting coalescing sort before querying.
// Filters do not participate in the key.
func (q LoanQuery) CacheKey() string {
	var b strings.Builder
	b.WriteString("hmda_")
	b.WriteString(strconv.Itoa(q.Year))
	if len(q.States) > 0 {
		b.WriteString("_states_")
		b.WriteString(strings.Join(q.States, "_"))
	}
	if len(q.MSAMDs) > 0 {
		b.WriteString("_msamds_")
		b.WriteString(strings.Join(q.MSAMDs, "_"))
	}
	return b.String()
}

// params builds the query string for the Data Browser endpoints. Geography
// lists are comma-joined; filter entries are added verbatim per name.
func (q LoanQuery) params() url.Values {
	values := url.Values{}
	values.Set("years", strconv.Itoa(q.Year))
	if len(q.States) > 0 {
		values.Set("states", strings.Join(q.States, ","))
	}
	if len(q.MSAMDs) > 0 {
		values.Set("msamds", strings.Join(q.MSAMDs, ","))
	}
	for _, name := range q.Filters.Names() {
		values.Set(name, strings.Join(q.Filters[name], ","))
	}
	return values
}

// validate enforces the boundary constraints the client owns. Upstream owns
// the minimum supported year; the client only rejects the zero value.
func (q LoanQuery) validate() error {
	if q.Year == 0 {
		return ErrYearRequired
	}
	return nil
}
