// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates a caller bug: an unknown strategy name or a
// malformed per-type override mapping. It is raised before any text is
// processed and always propagates, unlike per-entity validation failures
// which are recovered locally.
type ConfigurationError struct {
	msg string
}

// NewConfigurationError creates a ConfigurationError with a formatted message
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// Error returns the error message
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.msg
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
