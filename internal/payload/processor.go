// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package payload applies text redaction across the named text fields of
// one record. Records arrive as generic field maps; only configured
// text-bearing fields are rewritten, every other field passes through
// untouched, and one metadata object summarizing the redactions is attached
// under a reserved key.
package payload

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"transcript-scrub/internal/detector"
	"transcript-scrub/internal/observability"
	"transcript-scrub/internal/redactors"
)

// MetadataKey is the reserved record key for redaction metadata
const MetadataKey = "_redaction_metadata"

// DefaultPIIFields are the transcript record fields redacted when no field
// list is configured.
var DefaultPIIFields = []string{"sentence", "description", "notes", "comments", "transcript"}

// Metadata summarizes all redactions applied to one record
type Metadata struct {
	RedactedAt     string                      `json:"redacted_at"`
	RedactionCount int                         `json:"redaction_count"`
	StrategyUsed   string                      `json:"strategy_used"`
	Redactions     []redactors.EntityRedaction `json:"redactions"`
}

// Stats reports what happened while processing one record
type Stats struct {
	// FieldsRedacted names the fields that received at least one redaction
	FieldsRedacted []string `json:"fields_redacted"`

	// EntityCount is the total number of entities redacted across fields
	EntityCount int `json:"entity_count"`

	// SkippedEntities counts entities dropped by validation across fields
	SkippedEntities int `json:"skipped_entities"`
}

// Processor redacts the configured text fields of records. It holds only
// read-only configuration and is safe for concurrent use across records.
type Processor struct {
	redactor *redactors.Redactor
	fields   map[string]bool
	observer *observability.StandardObserver
}

// NewProcessor creates a Processor. Nil or empty fields selects
// DefaultPIIFields; a nil observer disables operation logging.
func NewProcessor(redactor *redactors.Redactor, fields []string, observer *observability.StandardObserver) *Processor {
	if len(fields) == 0 {
		fields = DefaultPIIFields
	}
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}

	fieldSet := make(map[string]bool, len(fields))
	for _, f := range fields {
		fieldSet[f] = true
	}
	return &Processor{
		redactor: redactor,
		fields:   fieldSet,
		observer: observer,
	}
}

// ProcessPayload redacts the configured text fields of one record using the
// externally detected entities grouped by field name. The returned record
// is a new map: redacted fields carry rewritten text, all other fields are
// identical to the input, and a metadata object is attached under
// MetadataKey when at least one entity was redacted.
//
// Fields of one record are independent, so they are redacted concurrently;
// the merge order is deterministic regardless of completion order.
func (p *Processor) ProcessPayload(ctx context.Context, record map[string]interface{}, entitiesByField map[string][]detector.PIIEntity) (map[string]interface{}, *Stats, error) {
	finishTiming := p.observer.StartTiming("payload_processor", "process_payload", "")

	out := make(map[string]interface{}, len(record)+1)
	for key, value := range record {
		out[key] = value
	}

	eligible := p.eligibleFields(record, entitiesByField)

	type fieldOutcome struct {
		result *redactors.RedactionResult
		diags  *redactors.Diagnostics
	}
	outcomes := make([]fieldOutcome, len(eligible))

	g, ctx := errgroup.WithContext(ctx)
	for i, field := range eligible {
		i, field := i, field
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text := record[field].(string)
			result, diags := p.redactor.Redact(text, entitiesByField[field])
			outcomes[i] = fieldOutcome{result: result, diags: diags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, nil, err
	}

	stats := &Stats{}
	var allRedactions []redactors.EntityRedaction
	for i, field := range eligible {
		outcome := outcomes[i]
		out[field] = outcome.result.RedactedText
		stats.SkippedEntities += outcome.diags.SkippedEntities

		if outcome.result.RedactionCount == 0 {
			continue
		}
		stats.FieldsRedacted = append(stats.FieldsRedacted, field)
		for _, redaction := range outcome.result.EntitiesRedacted {
			redaction.FieldName = field
			allRedactions = append(allRedactions, redaction)
		}
	}
	stats.EntityCount = len(allRedactions)

	if len(allRedactions) > 0 {
		out[MetadataKey] = &Metadata{
			RedactedAt:     time.Now().UTC().Format(time.RFC3339),
			RedactionCount: len(allRedactions),
			StrategyUsed:   p.redactor.Strategy().String(),
			Redactions:     allRedactions,
		}
	}

	finishTiming(true, map[string]interface{}{
		"fields_redacted":  len(stats.FieldsRedacted),
		"entity_count":     stats.EntityCount,
		"skipped_entities": stats.SkippedEntities,
	})

	return out, stats, nil
}

// eligibleFields returns, in deterministic order, the fields that are
// configured for redaction, present in the record as non-blank strings, and
// have detected entities.
func (p *Processor) eligibleFields(record map[string]interface{}, entitiesByField map[string][]detector.PIIEntity) []string {
	var eligible []string
	for field, entities := range entitiesByField {
		if len(entities) == 0 || !p.fields[field] {
			continue
		}
		text, ok := record[field].(string)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		eligible = append(eligible, field)
	}
	sort.Strings(eligible)
	return eligible
}
