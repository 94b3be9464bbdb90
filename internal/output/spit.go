// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/srbutler1/hmdactl/internal/config"
	tbl "github.com/srbutler1/hmdactl/internal/table"
)

// SliceDiceSpit orchestrates column selection, filtering, sorting and
// rendering of a result table according to command flags.
func SliceDiceSpit(t *tbl.Table, cmd *cli.Command, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	if columns := cmd.String("columns"); columns != "" {
		t = SelectColumns(t, columns)
	}

	// Filter out the rows we don't want. Do it here so sorting works on a
	// smaller dataset.
	t = FilterTable(t, cmd.String("filter"))
	t = SortTable(t, cmd.String("sort"))

	switch cmd.String("output") {
	case "csv", "raw":
		return t.Write(w)
	case "json":
		jsonOutput, err := json.Marshal(toMaps(t))
		if err != nil {
			return fmt.Errorf("failed to marshal JSON output: %w", err)
		}
		_, err = w.Write(append(jsonOutput, '\n'))
		return err
	case "yaml":
		yamlOutput, err := yaml.Marshal(toMaps(t))
		if err != nil {
			return fmt.Errorf("failed to marshal YAML output: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err
	default:
		TableWriter(t, cmd, w)
		return nil
	}
}

// SelectColumns returns a table restricted to the comma-separated columns in
// spec, in spec order. Unknown columns are reported and skipped.
func SelectColumns(t *tbl.Table, spec string) *tbl.Table {
	//nolint:prealloc
	var indices []int
	var columns []string
	for _, col := range strings.Split(spec, ",") {
		col = strings.TrimSpace(col)
		idx, ok := t.ColumnIndex(col)
		if !ok {
			log.Error("column not found: " + col)
			continue
		}
		indices = append(indices, idx)
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return t
	}

	result := tbl.New(columns)
	for i := 0; i < t.Len(); i++ {
		row := make([]string, len(indices))
		for j, idx := range indices {
			row[j] = t.Row(i)[idx]
		}
		_ = result.Append(row)
	}
	return result
}

// TableWriter renders the result set in a tabular form honoring color and
// titles options.
func TableWriter(t *tbl.Table, cmd *cli.Command, w io.Writer) {
	if t.Len() == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors()

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	out := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Rows(t.Rows()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		})

	if cmd.Bool("titles") {
		out = out.Headers(t.Columns()...).BorderHeader(false)
	}

	fmt.Fprintln(w, out)
}

// toMaps converts the table to a slice of column-keyed records for the
// structured renderers.
func toMaps(t *tbl.Table) []map[string]string {
	records := make([]map[string]string, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		record := make(map[string]string, len(t.Columns()))
		for _, col := range t.Columns() {
			record[col], _ = t.Get(i, col)
		}
		records = append(records, record)
	}
	return records
}

// getColors resolves the text-output palette from the config file with
// sensible defaults.
func getColors() (header, even, odd string) {
	header, _ = config.GetString("colors.header", "12")
	even, _ = config.GetString("colors.even", "7")
	odd, _ = config.GetString("colors.odd", "8")
	return
}
