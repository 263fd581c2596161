// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"transcript-scrub/internal/batch"
	"transcript-scrub/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text summary with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *batch.JobResult, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	if result == nil {
		return "No job result.", nil
	}

	var builder strings.Builder

	builder.WriteString(f.colors["white"].Sprintf("Redaction job %s\n", result.JobID))
	builder.WriteString(fmt.Sprintf("Status:    %s\n", f.colorStatus(result.Status)))
	builder.WriteString(fmt.Sprintf("Strategy:  %s\n", result.StrategyUsed))
	builder.WriteString(fmt.Sprintf("Duration:  %dms\n", result.DurationMs))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Records:   %d processed, %d failed (of %d)\n",
		result.RecordsProcessed, result.RecordsFailed, result.TotalRecords))
	builder.WriteString(fmt.Sprintf("PII:       %d records with PII, %d redactions applied\n",
		result.RecordsWithPII, result.TotalRedactions))
	if result.SkippedEntities > 0 {
		builder.WriteString(f.colors["yellow"].Sprintf("Skipped:   %d malformed entities ignored\n", result.SkippedEntities))
	}

	if options.Verbose && len(result.Records) > 0 {
		builder.WriteString("\nPer-record detail:\n")
		for _, record := range result.Records {
			line := fmt.Sprintf("  [%d] %s: %d redactions", record.RecordIndex, record.Status, record.EntityCount)
			if record.SkippedEntities > 0 {
				line += fmt.Sprintf(", %d skipped", record.SkippedEntities)
			}
			if len(record.FieldsRedacted) > 0 {
				line += fmt.Sprintf(" (%s)", strings.Join(record.FieldsRedacted, ", "))
			}
			if record.Error != "" {
				line += " - " + f.colors["red"].Sprint(record.Error)
			}
			builder.WriteString(line + "\n")
		}
	}

	return builder.String(), nil
}

// colorStatus renders a job status in its severity color
func (f *Formatter) colorStatus(status string) string {
	switch status {
	case batch.StatusSuccess:
		return f.colors["green"].Sprint(status)
	case batch.StatusPartial:
		return f.colors["yellow"].Sprint(status)
	default:
		return f.colors["red"].Sprint(status)
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
