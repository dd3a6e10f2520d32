// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package config

import (
	"github.com/pkg/errors"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks field ranges and enumerations
func (c *Config) Validate() error {
	if c.CacheTTLSeconds < 0 {
		return errors.Wrapf(ErrInvalidConfig, "cacheTTLSeconds must not be negative, got %d", c.CacheTTLSeconds)
	}
	if c.MaxInputBytes < 0 {
		return errors.Wrapf(ErrInvalidConfig, "maxInputBytes must not be negative, got %d", c.MaxInputBytes)
	}

	switch c.OutputFormat {
	case OutputFormatJSON, OutputFormatText:
	default:
		return errors.Wrapf(ErrInvalidConfig, "outputFormat must be %q or %q, got %q", OutputFormatJSON, OutputFormatText, c.OutputFormat)
	}

	return nil
}
