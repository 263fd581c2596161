// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel runs per-record redaction jobs across a pool of workers.
// Each record is a pure, self-contained computation over read-only
// configuration, so records fan out across workers with no locking; results
// are emitted atomically on completion, one per record.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"

	"transcript-scrub/internal/detector"
	"transcript-scrub/internal/observability"
	"transcript-scrub/internal/payload"
)

// Job is one record redaction task
type Job struct {
	// JobID identifies the batch run this job belongs to
	JobID string

	// Index is the record's position in the input batch
	Index int

	// Record is the payload to redact
	Record map[string]interface{}

	// EntitiesByField holds the externally detected entities per field
	EntitiesByField map[string][]detector.PIIEntity
}

// Result is the outcome of processing one record
type Result struct {
	JobID    string
	Index    int
	Record   map[string]interface{}
	Stats    *payload.Stats
	Err      error
	Duration time.Duration
}

// WorkerPool manages parallel record processing
type WorkerPool struct {
	workers   int
	processor *payload.Processor
	jobs      chan *Job
	results   chan *Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	observer  *observability.StandardObserver
}

// NewWorkerPool creates a worker pool. Workers of zero or less defaults to
// the number of CPUs.
func NewWorkerPool(ctx context.Context, workers int, processor *payload.Processor, observer *observability.StandardObserver) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workers:   workers,
		processor: processor,
		jobs:      make(chan *Job, workers*2),
		results:   make(chan *Result, workers*2),
		ctx:       ctx,
		cancel:    cancel,
		observer:  observer,
	}
}

// Start launches the worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Submit queues a job. It returns once the job is accepted or the pool's
// context is canceled.
func (wp *WorkerPool) Submit(job *Job) {
	select {
	case wp.jobs <- job:
	case <-wp.ctx.Done():
	}
}

// Done signals that no more jobs will be submitted
func (wp *WorkerPool) Done() {
	close(wp.jobs)
}

// Results returns the results channel. It is closed by Stop after all
// workers have drained.
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// Stop waits for the workers to finish the queued jobs, then closes the
// results channel. Done must have been called first.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Cancel abandons all remaining jobs. Records already completed keep their
// results; in-flight records fail with the context error and are never
// partially committed.
func (wp *WorkerPool) Cancel() {
	wp.cancel()
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.results <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob redacts one record
func (wp *WorkerPool) processJob(job *Job, workerID int) *Result {
	start := time.Now()
	finishTiming := wp.observer.StartTiming("worker_pool", "process_record", job.JobID)

	record, stats, err := wp.processor.ProcessPayload(wp.ctx, job.Record, job.EntitiesByField)
	if err != nil {
		// The record's result is only committed on success; the original
		// payload travels back unmodified.
		record = job.Record
		stats = nil
	}

	duration := time.Since(start)
	finishTiming(err == nil, map[string]interface{}{
		"worker_id":    workerID,
		"record_index": job.Index,
		"duration_ms":  duration.Milliseconds(),
	})

	return &Result{
		JobID:    job.JobID,
		Index:    job.Index,
		Record:   record,
		Stats:    stats,
		Err:      err,
		Duration: duration,
	}
}
