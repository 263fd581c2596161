// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecords_ArrayAndSingleObject(t *testing.T) {
	dir := t.TempDir()

	arrayPath := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(arrayPath, []byte(`[{"sentence":"a"},{"sentence":"b"}]`), 0o644))
	records, err := LoadRecords(arrayPath)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[1]["sentence"])

	singlePath := filepath.Join(dir, "single.json")
	require.NoError(t, os.WriteFile(singlePath, []byte(`{"sentence":"only"}`), 0o644))
	records, err = LoadRecords(singlePath)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "only", records[0]["sentence"])
}

func TestLoadRecords_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))
	_, err := LoadRecords(path)
	assert.Error(t, err)
}

func TestLoadRecords_MissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadDetections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detections.json")
	payload := `[
  {"sentence": [{"text":"Alice","entity_type":"PERSON","start_pos":5,"end_pos":10,"confidence":0.9,"source":"CLOUD_NLP"}]},
  {}
]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	detections, err := LoadDetections(path)
	require.NoError(t, err)
	require.Len(t, detections, 2)
	require.Len(t, detections[0]["sentence"], 1)
	entity := detections[0]["sentence"][0]
	assert.Equal(t, "Alice", entity.Text)
	assert.Equal(t, "PERSON", entity.EntityType)
	assert.Equal(t, 5, entity.StartPos)
	assert.Equal(t, 10, entity.EndPos)
}

func TestWriteRecords_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	records := []map[string]interface{}{
		{"sentence": "Call [REDACTED_PERSON]"},
	}
	require.NoError(t, WriteRecords(path, records))

	loaded, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, records[0]["sentence"], loaded[0]["sentence"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}
