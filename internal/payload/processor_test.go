// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcript-scrub/internal/detector"
	"transcript-scrub/internal/redactors"
)

func newProcessor(t *testing.T, strategy string) *Processor {
	t.Helper()
	sel, err := redactors.NewSelector(strategy, nil)
	require.NoError(t, err)
	return NewProcessor(redactors.NewRedactor(sel, nil), nil, nil)
}

func TestProcessPayload_RedactsConfiguredFieldOnly(t *testing.T) {
	record := map[string]interface{}{
		"verbatim_id": 12345,
		"sentence":    "Call John Smith at john@email.com",
		"type":        "client",
	}
	entities := map[string][]detector.PIIEntity{
		"sentence": {
			{Text: "John Smith", EntityType: "PERSON", StartPos: 5, EndPos: 15, Confidence: 0.9, Source: detector.SourceCloudNLP},
			{Text: "john@email.com", EntityType: "EMAIL", StartPos: 19, EndPos: 33, Confidence: 0.95, Source: detector.SourceRegex},
		},
	}

	out, stats, err := newProcessor(t, "placeholder").ProcessPayload(context.Background(), record, entities)
	require.NoError(t, err)

	assert.Equal(t, "Call [REDACTED_PERSON] at [REDACTED_EMAIL]", out["sentence"])
	assert.Equal(t, 12345, out["verbatim_id"], "non-text fields pass through untouched")
	assert.Equal(t, "client", out["type"])
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, []string{"sentence"}, stats.FieldsRedacted)

	// Input record must not be mutated.
	assert.Equal(t, "Call John Smith at john@email.com", record["sentence"])
}

func TestProcessPayload_MetadataShape(t *testing.T) {
	record := map[string]interface{}{
		"sentence": "Reach me at a@b.com",
	}
	entities := map[string][]detector.PIIEntity{
		"sentence": {
			{Text: "a@b.com", EntityType: "EMAIL", StartPos: 12, EndPos: 19, Confidence: 0.95, Source: detector.SourceRegex},
		},
	}

	out, _, err := newProcessor(t, "hash").ProcessPayload(context.Background(), record, entities)
	require.NoError(t, err)

	meta, ok := out[MetadataKey].(*Metadata)
	require.True(t, ok, "metadata must be attached under the reserved key")
	assert.Equal(t, 1, meta.RedactionCount)
	assert.Equal(t, "hash", meta.StrategyUsed)
	assert.NotEmpty(t, meta.RedactedAt)
	require.Len(t, meta.Redactions, 1)
	assert.Equal(t, "sentence", meta.Redactions[0].FieldName)
	assert.Equal(t, "a@b.com", meta.Redactions[0].OriginalText)
}

func TestProcessPayload_NoEntitiesNoMetadata(t *testing.T) {
	record := map[string]interface{}{"sentence": "nothing sensitive"}

	out, stats, err := newProcessor(t, "placeholder").ProcessPayload(context.Background(), record, nil)
	require.NoError(t, err)

	assert.NotContains(t, out, MetadataKey)
	assert.Equal(t, "nothing sensitive", out["sentence"])
	assert.Zero(t, stats.EntityCount)
}

func TestProcessPayload_UnconfiguredFieldIgnored(t *testing.T) {
	record := map[string]interface{}{
		"sentence": "Call John",
		"agent_id": "John",
	}
	entities := map[string][]detector.PIIEntity{
		// agent_id is not in the configured PII field list.
		"agent_id": {
			{Text: "John", EntityType: "PERSON", StartPos: 0, EndPos: 4, Confidence: 0.9, Source: detector.SourceRegex},
		},
	}

	out, stats, err := newProcessor(t, "placeholder").ProcessPayload(context.Background(), record, entities)
	require.NoError(t, err)

	assert.Equal(t, "John", out["agent_id"])
	assert.Zero(t, stats.EntityCount)
}

func TestProcessPayload_NonStringFieldSkipped(t *testing.T) {
	record := map[string]interface{}{
		"sentence": 42,
	}
	entities := map[string][]detector.PIIEntity{
		"sentence": {
			{Text: "42", EntityType: "OTHER", StartPos: 0, EndPos: 2, Confidence: 0.9, Source: detector.SourceRegex},
		},
	}

	out, stats, err := newProcessor(t, "placeholder").ProcessPayload(context.Background(), record, entities)
	require.NoError(t, err)

	assert.Equal(t, 42, out["sentence"])
	assert.Zero(t, stats.EntityCount)
}

func TestProcessPayload_MultipleFieldsAggregated(t *testing.T) {
	record := map[string]interface{}{
		"sentence": "Call John",
		"notes":    "His number is 555-1234",
	}
	entities := map[string][]detector.PIIEntity{
		"sentence": {
			{Text: "John", EntityType: "PERSON", StartPos: 5, EndPos: 9, Confidence: 0.9, Source: detector.SourceCloudNLP},
		},
		"notes": {
			{Text: "555-1234", EntityType: "PHONE", StartPos: 14, EndPos: 22, Confidence: 0.95, Source: detector.SourceRegex},
		},
	}

	out, stats, err := newProcessor(t, "placeholder").ProcessPayload(context.Background(), record, entities)
	require.NoError(t, err)

	assert.Equal(t, "Call [REDACTED_PERSON]", out["sentence"])
	assert.Equal(t, "His number is [REDACTED_PHONE]", out["notes"])
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, []string{"notes", "sentence"}, stats.FieldsRedacted, "deterministic field order")

	meta := out[MetadataKey].(*Metadata)
	require.Len(t, meta.Redactions, 2)
	assert.Equal(t, "notes", meta.Redactions[0].FieldName)
	assert.Equal(t, "sentence", meta.Redactions[1].FieldName)
}

func TestProcessPayload_SkippedEntitiesCounted(t *testing.T) {
	record := map[string]interface{}{"sentence": "short"}
	entities := map[string][]detector.PIIEntity{
		"sentence": {
			{Text: "ghost", EntityType: "OTHER", StartPos: 50, EndPos: 55, Confidence: 0.9, Source: detector.SourceRegex},
		},
	}

	out, stats, err := newProcessor(t, "placeholder").ProcessPayload(context.Background(), record, entities)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SkippedEntities)
	assert.Zero(t, stats.EntityCount)
	assert.NotContains(t, out, MetadataKey)
}

func TestProcessPayload_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record := map[string]interface{}{"sentence": "Call John"}
	entities := map[string][]detector.PIIEntity{
		"sentence": {
			{Text: "John", EntityType: "PERSON", StartPos: 5, EndPos: 9, Confidence: 0.9, Source: detector.SourceRegex},
		},
	}

	_, _, err := newProcessor(t, "placeholder").ProcessPayload(ctx, record, entities)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessPayload_CustomFieldList(t *testing.T) {
	sel, err := redactors.NewSelector("placeholder", nil)
	require.NoError(t, err)
	processor := NewProcessor(redactors.NewRedactor(sel, nil), []string{"summary"}, nil)

	record := map[string]interface{}{
		"summary":  "John called",
		"sentence": "John called",
	}
	entities := map[string][]detector.PIIEntity{
		"summary": {
			{Text: "John", EntityType: "PERSON", StartPos: 0, EndPos: 4, Confidence: 0.9, Source: detector.SourceRegex},
		},
		"sentence": {
			{Text: "John", EntityType: "PERSON", StartPos: 0, EndPos: 4, Confidence: 0.9, Source: detector.SourceRegex},
		},
	}

	out, _, err := processor.ProcessPayload(context.Background(), record, entities)
	require.NoError(t, err)

	assert.Equal(t, "[REDACTED_PERSON] called", out["summary"])
	assert.Equal(t, "John called", out["sentence"], "default fields replaced by custom list")
}
