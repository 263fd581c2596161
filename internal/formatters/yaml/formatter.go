// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"transcript-scrub/internal/batch"
	"transcript-scrub/internal/formatters"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML output for human-readable structured data"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(result *batch.JobResult, options formatters.FormatterOptions) (string, error) {
	if result == nil {
		return "{}\n", nil
	}

	out := *result
	if !options.Verbose {
		out.Records = nil
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
