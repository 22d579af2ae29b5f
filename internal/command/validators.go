// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"

	"github.com/cefwatch/cefwatch/internal/report"
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
	s, _ := value.(string)
	if !slices.Contains(report.Formats, s) {
		return fmt.Errorf("must be one of %v", report.Formats)
	}
	return nil
}

// PlatformsValidator rejects an empty platform list.
func PlatformsValidator(value any) error {
	list, _ := value.([]string)
	if len(list) == 0 {
		return fmt.Errorf("at least one platform is required")
	}
	return nil
}
