// Copyright (c) 2025 The SkillPass developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/skillpassorg/libskillpass-go/identity"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within
// acceptable ranges and returns the first error encountered, or nil if
// valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.Authority != "" {
		if _, err := identity.FromHex(cfg.Authority); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAuthority, err)
		}
	}

	return nil
}
