// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "csv", "json", "yaml", "raw"}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// AnalysisByValidator restricts --by to the reports aq can compute.
func AnalysisByValidator(value any) error {
	var validByFlagValues = []string{
		"approval", "denial", "race", "ethnicity", "sex", "levels", "qc", "validate"}
	for _, v := range validByFlagValues {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("must be one of %v", validByFlagValues)
}

// YearValidator rejects years before HMDA Data Browser coverage begins.
func YearValidator(value any) error {
	year, ok := value.(int)
	if !ok {
		return errors.New("year must be an integer")
	}
	if year < 2018 {
		return errors.New("year must be 2018 or later")
	}
	return nil
}
