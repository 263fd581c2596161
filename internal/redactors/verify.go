// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"strings"
)

// VerificationReport is the outcome of checking a completed redaction
type VerificationReport struct {
	// Valid is false when redacted output still contains original PII
	Valid bool `json:"valid"`

	// Errors lists PII leaks found in the redacted text
	Errors []string `json:"errors,omitempty"`

	// Warnings lists suspicious but non-fatal observations
	Warnings []string `json:"warnings,omitempty"`
}

// VerifyResult checks that a redaction was performed correctly: none of the
// replaced PII text may survive in the redacted output, and the output
// should not balloon far beyond the original. Strategies that intentionally
// keep fragments (mask, partial) pass because the full original substring
// no longer appears.
func VerifyResult(result *RedactionResult) *VerificationReport {
	report := &VerificationReport{Valid: true}

	redactedLower := strings.ToLower(result.RedactedText)
	for _, redaction := range result.EntitiesRedacted {
		// Remove-strategy entities leave nothing behind; a single-character
		// original would trivially match almost anywhere.
		original := strings.ToLower(redaction.OriginalText)
		if len(original) < 2 {
			continue
		}
		if strings.Contains(redactedLower, original) {
			report.Valid = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("PII text %q still present in redacted output", redaction.OriginalText))
		}
	}

	if len(result.RedactedText) > len(result.OriginalText)*3/2 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("redacted text significantly longer than original (%d vs %d chars)",
				len(result.RedactedText), len(result.OriginalText)))
	}

	return report
}
