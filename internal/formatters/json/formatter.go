// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"transcript-scrub/internal/batch"
	"transcript-scrub/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Format(result *batch.JobResult, options formatters.FormatterOptions) (string, error) {
	if result == nil {
		return "{}", nil
	}

	// Verbose keeps the per-record breakdown; the default trims it to keep
	// the summary readable on large batches.
	out := *result
	if !options.Verbose {
		out.Records = nil
	}

	jsonData, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(jsonData), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
