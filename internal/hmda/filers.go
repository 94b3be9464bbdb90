// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package hmda

import (
	"context"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/srbutler1/hmdactl/internal/table"
)

// Filers lists the institutions that filed HMDA data for the year and
// optional geography. This is always a live call: the fetch cache is never
// consulted or populated here.
func (c *Client) Filers(ctx context.Context, year int, states, msamds []string) (*table.Table, error) {
	q := LoanQuery{Year: year, States: states, MSAMDs: msamds}
	if err := q.validate(); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, "/view/filers", q.params())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to parse filers response: invalid JSON")
	}

	institutions := gjson.GetBytes(body, "institutions")
	if !institutions.Exists() || !institutions.IsArray() {
		return nil, fmt.Errorf("failed to parse filers response: missing institutions list")
	}

	// Columns come out in document order, first appearance wins across
	// records. Nested values fall back to their raw JSON form.
	var columns []string
	seen := map[string]bool{}
	var records []map[string]string

	institutions.ForEach(func(_, inst gjson.Result) bool {
		record := map[string]string{}
		inst.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
			record[name] = value.String()
			return true
		})
		records = append(records, record)
		return true
	})

	return table.FromRecords(columns, records), nil
}
