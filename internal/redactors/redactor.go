// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"sort"
	"time"

	"transcript-scrub/internal/consolidate"
	"transcript-scrub/internal/detector"
	"transcript-scrub/internal/observability"
)

// EntityRedaction is the audit record for one redacted entity
type EntityRedaction struct {
	// OriginalText is the PII text that was replaced
	OriginalText string `json:"original_text"`

	// EntityType is the PII category of the entity
	EntityType string `json:"entity_type"`

	// Replacement is the substitute the strategy produced
	Replacement string `json:"replacement"`

	// Confidence is the detector's confidence for the entity
	Confidence float64 `json:"confidence"`

	// Source identifies the detector that produced the entity
	Source detector.Source `json:"source"`

	// StartPos and EndPos are the entity's offsets in the original text
	StartPos int `json:"start_pos"`
	EndPos   int `json:"end_pos"`

	// FieldName is set by the payload processor when redacting records
	FieldName string `json:"field_name,omitempty"`
}

// RedactionResult is the outcome of redacting one text value. It is
// constructed once per text field, immutable after construction, and owned
// by the caller.
type RedactionResult struct {
	// OriginalText is the input text, untouched
	OriginalText string `json:"original_text"`

	// RedactedText is the rewritten text
	RedactedText string `json:"redacted_text"`

	// EntitiesRedacted lists the applied redactions in left-to-right
	// reading order of the original text, regardless of processing order
	EntitiesRedacted []EntityRedaction `json:"entities_redacted"`

	// RedactionCount equals len(EntitiesRedacted)
	RedactionCount int `json:"redaction_count"`

	// StrategyUsed names the run's default strategy
	StrategyUsed string `json:"strategy_used"`

	// RedactedAt is stamped when the redaction completed
	RedactedAt time.Time `json:"redacted_at"`
}

// ValidationIssue records one entity that was dropped before redaction
type ValidationIssue struct {
	Entity detector.PIIEntity `json:"entity"`
	Reason string             `json:"reason"`
}

// Diagnostics collects non-fatal problems encountered during one redaction.
// It travels alongside the result rather than inside it, keeping the
// happy-path result object clean.
type Diagnostics struct {
	// SkippedEntities counts entities dropped by validation
	SkippedEntities int `json:"skipped_entities"`

	// Issues describes each dropped entity
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// Redactor applies a redaction strategy to the PII entities of text values.
// It holds only read-only configuration and is safe for concurrent use.
type Redactor struct {
	selector *Selector
	observer *observability.StandardObserver
}

// NewRedactor creates a Redactor. A nil observer disables operation logging.
func NewRedactor(selector *Selector, observer *observability.StandardObserver) *Redactor {
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}
	return &Redactor{
		selector: selector,
		observer: observer,
	}
}

// NewRedactorForStrategy is a convenience constructor for a single strategy
// with no per-type overrides.
func NewRedactorForStrategy(strategy Strategy) *Redactor {
	return NewRedactor(&Selector{defaultStrategy: strategy}, nil)
}

// Strategy returns the run's default strategy
func (r *Redactor) Strategy() Strategy {
	return r.selector.Default()
}

// Redact replaces every valid entity in text with its strategy substitute
// and returns the result together with diagnostics for any entity that had
// to be skipped.
//
// Entities whose offsets are out of bounds, or whose text does not match
// the span they claim, are dropped and counted, never fatal. The surviving
// entities are consolidated (a no-op for input that is already free of
// overlaps), then applied right to left: replacing the rightmost entity
// first means a replacement only ever shifts text at or after its own
// position, so the offsets of all not-yet-processed entities stay valid.
func (r *Redactor) Redact(text string, entities []detector.PIIEntity) (*RedactionResult, *Diagnostics) {
	finishTiming := r.observer.StartTiming("redactor", "redact_text", "")

	diags := &Diagnostics{}
	valid := make([]detector.PIIEntity, 0, len(entities))
	for _, entity := range entities {
		if err := entity.Validate(text); err != nil {
			diags.SkippedEntities++
			diags.Issues = append(diags.Issues, ValidationIssue{Entity: entity, Reason: err.Error()})
			continue
		}
		valid = append(valid, entity)
	}

	consolidated := consolidate.Merge(valid)

	// Rewrite pass, descending by start position.
	ordered := make([]detector.PIIEntity, len(consolidated))
	copy(ordered, consolidated)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartPos > ordered[j].StartPos
	})

	redacted := text
	audit := make([]EntityRedaction, 0, len(ordered))
	for _, entity := range ordered {
		replacement := r.selector.For(entity.EntityType).Apply(entity)
		redacted = redacted[:entity.StartPos] + replacement + redacted[entity.EndPos:]

		audit = append(audit, EntityRedaction{
			OriginalText: entity.Text,
			EntityType:   entity.EntityType,
			Replacement:  replacement,
			Confidence:   entity.Confidence,
			Source:       entity.Source,
			StartPos:     entity.StartPos,
			EndPos:       entity.EndPos,
		})
	}

	// The audit trail reads left to right in original-text order.
	sort.Slice(audit, func(i, j int) bool {
		return audit[i].StartPos < audit[j].StartPos
	})

	result := &RedactionResult{
		OriginalText:     text,
		RedactedText:     redacted,
		EntitiesRedacted: audit,
		RedactionCount:   len(audit),
		StrategyUsed:     r.selector.Default().String(),
		RedactedAt:       time.Now().UTC(),
	}

	finishTiming(true, map[string]interface{}{
		"entity_count":     len(entities),
		"redaction_count":  result.RedactionCount,
		"skipped_entities": diags.SkippedEntities,
		"strategy":         result.StrategyUsed,
	})

	return result, diags
}
