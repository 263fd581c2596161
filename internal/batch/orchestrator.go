// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package batch coordinates redaction runs over whole record sets: it fans
// records out to the worker pool, collects per-record outcomes in input
// order, and aggregates them into a single job result.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"transcript-scrub/internal/detector"
	"transcript-scrub/internal/observability"
	"transcript-scrub/internal/parallel"
	"transcript-scrub/internal/payload"
)

// Job status values
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// RecordStats is the per-record entry of a job result
type RecordStats struct {
	RecordIndex     int      `json:"record_index" yaml:"record_index"`
	Status          string   `json:"status" yaml:"status"`
	Error           string   `json:"error,omitempty" yaml:"error,omitempty"`
	EntityCount     int      `json:"entity_count" yaml:"entity_count"`
	SkippedEntities int      `json:"skipped_entities" yaml:"skipped_entities"`
	FieldsRedacted  []string `json:"fields_redacted,omitempty" yaml:"fields_redacted,omitempty"`
	DurationMs      int64    `json:"duration_ms" yaml:"duration_ms"`
}

// JobResult aggregates the outcome of one batch run
type JobResult struct {
	JobID            string        `json:"job_id" yaml:"job_id"`
	Status           string        `json:"status" yaml:"status"`
	StrategyUsed     string        `json:"strategy_used" yaml:"strategy_used"`
	TotalRecords     int           `json:"total_records" yaml:"total_records"`
	RecordsProcessed int           `json:"records_processed" yaml:"records_processed"`
	RecordsFailed    int           `json:"records_failed" yaml:"records_failed"`
	RecordsWithPII   int           `json:"records_with_pii" yaml:"records_with_pii"`
	TotalRedactions  int           `json:"total_redactions" yaml:"total_redactions"`
	SkippedEntities  int           `json:"skipped_entities" yaml:"skipped_entities"`
	StartedAt        time.Time     `json:"started_at" yaml:"started_at"`
	CompletedAt      time.Time     `json:"completed_at" yaml:"completed_at"`
	Duration         time.Duration `json:"-" yaml:"-"`
	DurationMs       int64         `json:"duration_ms" yaml:"duration_ms"`
	Records          []RecordStats `json:"records,omitempty" yaml:"records,omitempty"`
}

// Orchestrator runs redaction batches
type Orchestrator struct {
	processor *payload.Processor
	strategy  string
	workers   int
	observer  *observability.StandardObserver
}

// NewOrchestrator creates an Orchestrator. Workers of zero or less lets the
// pool size itself to the available CPUs.
func NewOrchestrator(processor *payload.Processor, strategy string, workers int, observer *observability.StandardObserver) *Orchestrator {
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}
	return &Orchestrator{
		processor: processor,
		strategy:  strategy,
		workers:   workers,
		observer:  observer,
	}
}

// ProcessRecords redacts a batch of records using externally detected
// entities, one detection map per record, aligned by index. The returned
// slice preserves input order. Records are independent and are processed in
// parallel; canceling ctx abandons the remaining records and returns the
// context error without a partial result set.
func (o *Orchestrator) ProcessRecords(ctx context.Context, records []map[string]interface{}, detections []map[string][]detector.PIIEntity) ([]map[string]interface{}, *JobResult, error) {
	if len(detections) != len(records) {
		return nil, nil, fmt.Errorf("detections length %d does not match records length %d", len(detections), len(records))
	}

	jobID := uuid.NewString()
	finishTiming := o.observer.StartTiming("orchestrator", "process_records", jobID)

	result := &JobResult{
		JobID:        jobID,
		StrategyUsed: o.strategy,
		TotalRecords: len(records),
		StartedAt:    time.Now().UTC(),
		Records:      make([]RecordStats, len(records)),
	}
	out := make([]map[string]interface{}, len(records))

	if len(records) == 0 {
		result.Status = StatusSuccess
		result.CompletedAt = time.Now().UTC()
		finishTiming(true, nil)
		return out, result, nil
	}

	pool := parallel.NewWorkerPool(ctx, o.workers, o.processor, o.observer)
	pool.Start()

	go func() {
		for i := range records {
			pool.Submit(&parallel.Job{
				JobID:           jobID,
				Index:           i,
				Record:          records[i],
				EntitiesByField: detections[i],
			})
		}
		pool.Done()
	}()
	go pool.Stop()

	for res := range pool.Results() {
		out[res.Index] = res.Record
		stats := RecordStats{
			RecordIndex: res.Index,
			Status:      StatusSuccess,
			DurationMs:  res.Duration.Milliseconds(),
		}

		if res.Err != nil {
			stats.Status = StatusFailed
			stats.Error = res.Err.Error()
			result.RecordsFailed++
		} else {
			result.RecordsProcessed++
			stats.EntityCount = res.Stats.EntityCount
			stats.SkippedEntities = res.Stats.SkippedEntities
			stats.FieldsRedacted = res.Stats.FieldsRedacted
			result.TotalRedactions += res.Stats.EntityCount
			result.SkippedEntities += res.Stats.SkippedEntities
			if res.Stats.EntityCount > 0 {
				result.RecordsWithPII++
			}
		}
		result.Records[res.Index] = stats
	}

	if err := ctx.Err(); err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, nil, err
	}

	result.CompletedAt = time.Now().UTC()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)
	result.DurationMs = result.Duration.Milliseconds()
	switch {
	case result.RecordsFailed == 0:
		result.Status = StatusSuccess
	case result.RecordsProcessed > 0:
		result.Status = StatusPartial
	default:
		result.Status = StatusFailed
	}

	finishTiming(result.RecordsFailed == 0, map[string]interface{}{
		"records_processed": result.RecordsProcessed,
		"records_failed":    result.RecordsFailed,
		"total_redactions":  result.TotalRedactions,
	})

	return out, result, nil
}
