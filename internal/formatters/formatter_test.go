// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"strings"
	"testing"

	"transcript-scrub/internal/batch"
	"transcript-scrub/internal/formatters"

	_ "transcript-scrub/internal/formatters/json"
	_ "transcript-scrub/internal/formatters/text"
	_ "transcript-scrub/internal/formatters/yaml"
)

func sampleResult() *batch.JobResult {
	return &batch.JobResult{
		JobID:            "test-job",
		Status:           batch.StatusSuccess,
		StrategyUsed:     "placeholder",
		TotalRecords:     2,
		RecordsProcessed: 2,
		RecordsWithPII:   1,
		TotalRedactions:  3,
		Records: []batch.RecordStats{
			{RecordIndex: 0, Status: batch.StatusSuccess, EntityCount: 3, FieldsRedacted: []string{"sentence"}},
			{RecordIndex: 1, Status: batch.StatusSuccess},
		},
	}
}

func TestRegistry_BuiltinFormatters(t *testing.T) {
	for _, name := range []string{"json", "text", "yaml"} {
		formatter, ok := formatters.Get(name)
		if !ok {
			t.Errorf("formatter %q not registered", name)
			continue
		}
		if formatter.Name() != name {
			t.Errorf("formatter name = %q, want %q", formatter.Name(), name)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := formatters.Export("bogus", sampleResult(), formatters.FormatterOptions{})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the format: %v", err)
	}
}

func TestExport_JSON(t *testing.T) {
	out, err := formatters.Export("json", sampleResult(), formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["job_id"] != "test-job" {
		t.Errorf("job_id = %v", decoded["job_id"])
	}
	if _, present := decoded["records"]; present {
		t.Error("non-verbose output should omit per-record detail")
	}

	out, err = formatters.Export("json", sampleResult(), formatters.FormatterOptions{Verbose: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "\"records\"") {
		t.Error("verbose output should include per-record detail")
	}
}

func TestExport_Text(t *testing.T) {
	out, err := formatters.Export("text", sampleResult(), formatters.FormatterOptions{NoColor: true, Verbose: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"test-job", "success", "3 redactions", "sentence"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestExport_YAML(t *testing.T) {
	out, err := formatters.Export("yaml", sampleResult(), formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "job_id: test-job") {
		t.Errorf("yaml output missing job id:\n%s", out)
	}
}
