// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"transcript-scrub/internal/detector"
)

// LoadRecords reads a record file: a JSON array of record objects. A single
// top-level object is accepted and treated as a one-record batch.
func LoadRecords(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		var single map[string]interface{}
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("invalid records JSON in %s: %w", path, err)
		}
		records = []map[string]interface{}{single}
	}
	return records, nil
}

// LoadDetections reads the detection sidecar produced by the external
// detectors: a JSON array aligned with the records array, one object per
// record mapping field names to detected entity lists. The entity objects
// carry their source, so multi-detector output is simply concatenated per
// field.
func LoadDetections(path string) ([]map[string][]detector.PIIEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read detections file: %w", err)
	}

	var detections []map[string][]detector.PIIEntity
	if err := json.Unmarshal(data, &detections); err != nil {
		return nil, fmt.Errorf("invalid detections JSON in %s: %w", path, err)
	}
	return detections, nil
}

// WriteRecords writes redacted records as indented JSON
func WriteRecords(path string, records []map[string]interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write records file: %w", err)
	}
	return nil
}

// WriteRecordsTo streams redacted records as indented JSON to a writer
func WriteRecordsTo(w io.Writer, records []map[string]interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
