// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package hmda

import (
	"errors"
	"fmt"
)

// Sentinel errors for boundary validation. These enable callers to detect
// specific conditions via errors.Is while keeping messages consistent.
var (
	ErrYearRequired      = errors.New("year is required")
	ErrUnknownFilterName = errors.New("unknown filter name")
)

// RequestFailedError is returned for any non-200 response from the Data
// Browser API. It carries the original status code and the response body
// text, which is the only error detail the upstream provides.
type RequestFailedError struct {
	StatusCode int
	Body       string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request failed: status %d: %s", e.StatusCode, e.Body)
}
