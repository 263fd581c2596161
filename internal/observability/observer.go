// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package observability provides structured operation logging for all
// components. Components emit timing records through a shared observer
// instead of logging ad hoc, so batch runs produce one consistent JSON
// stream in debug mode and stay silent otherwise.
package observability

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// ObservabilityLevel controls how much operational data is emitted
type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// StandardObserver implements observability for all components
type StandardObserver struct {
	level  ObservabilityLevel
	writer io.Writer
}

// NewStandardObserver creates an observer. A nil writer defaults to stderr.
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	if writer == nil {
		writer = os.Stderr
	}
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// OperationRecord describes one completed component operation
type OperationRecord struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	Subject    string                 `json:"subject,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// StartTiming returns a function to complete timing for an operation.
// Subject identifies what was operated on (a field name, a record ID).
func (o *StandardObserver) StartTiming(component, operation, subject string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(OperationRecord{
			Component:  component,
			Operation:  operation,
			Subject:    subject,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation emits one operation record. Records are only written in
// debug mode; metrics mode keeps timing overhead without output.
func (o *StandardObserver) LogOperation(record OperationRecord) {
	if o == nil || o.level != ObservabilityDebug {
		return
	}
	json.NewEncoder(o.writer).Encode(record)
}
