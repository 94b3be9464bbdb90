// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package hmda

import (
	"fmt"
	"sort"
	"strings"
)

// filterNames is the closed set of query filters the Data Browser API
// accepts alongside years/states/msamds. Anything else is rejected at the
// boundary rather than passed through to a confusing upstream 400.
var filterNames = map[string]struct{}{
	"actions_taken":        {},
	"construction_methods": {},
	"dwelling_categories":  {},
	"ethnicities":          {},
	"loan_products":        {},
	"loan_purposes":        {},
	"loan_types":           {},
	"races":                {},
	"sexes":                {},
	"total_units":          {},
}

// FilterSet maps validated Data Browser filter names to their value lists.
// Values are serialized comma-joined into a single query parameter per name.
type FilterSet map[string][]string

// Set validates name and appends values for it.
func (fs FilterSet) Set(name string, values ...string) error {
	if _, ok := filterNames[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilterName, name)
	}
	fs[name] = append(fs[name], values...)
	return nil
}

// Names returns the filter names in sorted order, for deterministic
// parameter serialization and logging.
func (fs FilterSet) Names() []string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseFilterSpecs folds a list of --where entries into a FilterSet. CLI
// slice flags split "name=1,2" on the comma, so a bare entry (no '=')
// extends the values of the preceding name.
func ParseFilterSpecs(specs []string) (FilterSet, error) {
	fs := FilterSet{}
	var last string
	for _, spec := range specs {
		if !strings.Contains(spec, "=") {
			if last == "" {
				return nil, fmt.Errorf("invalid filter spec %q: want name=value[,value]", spec)
			}
			if v := strings.TrimSpace(spec); v != "" {
				fs[last] = append(fs[last], v)
			}
			continue
		}
		name, values, err := ParseFilterSpec(spec)
		if err != nil {
			return nil, err
		}
		if err := fs.Set(name, values...); err != nil {
			return nil, err
		}
		last = name
	}
	return fs, nil
}

// ParseFilterSpec parses one "name=v1,v2" expression into a validated
// name/values pair, as supplied via the --where flag.
func ParseFilterSpec(spec string) (string, []string, error) {
	name, value, found := strings.Cut(spec, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" || value == "" {
		return "", nil, fmt.Errorf("invalid filter spec %q: want name=value[,value]", spec)
	}
	if _, ok := filterNames[name]; !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownFilterName, name)
	}

	var values []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("invalid filter spec %q: no values", spec)
	}

	return name, values, nil
}
