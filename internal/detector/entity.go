// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"
)

// Source identifies the detection engine that produced an entity
type Source string

const (
	// SourceCloudNLP is the managed NLP entity detection service
	SourceCloudNLP Source = "CLOUD_NLP"
	// SourceCustomRecognizer is the custom-trained entity recognizer
	SourceCustomRecognizer Source = "CUSTOM_RECOGNIZER"
	// SourceRegex is the pattern-based detector
	SourceRegex Source = "REGEX"
)

// Priority returns the fixed conflict-resolution rank for a source.
// Higher values win ties. Unknown sources rank below all known ones.
func (s Source) Priority() int {
	switch s {
	case SourceCloudNLP:
		return 3
	case SourceCustomRecognizer:
		return 2
	case SourceRegex:
		return 1
	default:
		return 0
	}
}

// PIIEntity represents one detected PII occurrence in a text value
type PIIEntity struct {
	// Text is the exact substring that was matched
	Text string `json:"text"`

	// EntityType categorizes the PII (EMAIL, PHONE, PERSON, SSN, ...)
	EntityType string `json:"entity_type"`

	// StartPos and EndPos are half-open byte offsets into the original text
	StartPos int `json:"start_pos"`
	EndPos   int `json:"end_pos"`

	// Confidence is the detector's confidence score (0.0 to 1.0)
	Confidence float64 `json:"confidence"`

	// Source identifies the detector that produced this entity
	Source Source `json:"source"`
}

// String returns a compact representation for logs and diagnostics
func (e PIIEntity) String() string {
	return fmt.Sprintf("%s: %q [%d:%d) (%.2f, %s)", e.EntityType, e.Text, e.StartPos, e.EndPos, e.Confidence, e.Source)
}

// Length returns the span length in bytes
func (e PIIEntity) Length() int {
	return e.EndPos - e.StartPos
}

// Validate checks the entity against the original text that produced its
// offsets. An entity whose span is out of bounds, or whose Text does not
// match text[StartPos:EndPos] exactly, must not be applied to that text.
func (e PIIEntity) Validate(text string) error {
	if e.Text == "" {
		return fmt.Errorf("entity has empty text")
	}
	if e.StartPos < 0 || e.EndPos > len(text) || e.StartPos >= e.EndPos {
		return fmt.Errorf("span [%d:%d) out of bounds for text of length %d", e.StartPos, e.EndPos, len(text))
	}
	if text[e.StartPos:e.EndPos] != e.Text {
		return fmt.Errorf("span [%d:%d) contains %q, entity claims %q", e.StartPos, e.EndPos, text[e.StartPos:e.EndPos], e.Text)
	}
	if e.Confidence < 0.0 || e.Confidence > 1.0 {
		return fmt.Errorf("confidence %.2f outside [0,1]", e.Confidence)
	}
	return nil
}

// Beats reports whether e wins a conflict against other when two detected
// spans overlap. The ordering is: higher confidence, then higher source
// priority, then longer span. When all three are equal the incumbent keeps
// its place, so callers comparing a challenger against a current winner get
// deterministic first-encountered-wins behavior.
func (e PIIEntity) Beats(other PIIEntity) bool {
	if e.Confidence != other.Confidence {
		return e.Confidence > other.Confidence
	}
	if ep, op := e.Source.Priority(), other.Source.Priority(); ep != op {
		return ep > op
	}
	return e.Length() > other.Length()
}
