// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigOrDefault_NoFile(t *testing.T) {
	// With no config file, should return defaults without error
	cfg := LoadConfigOrDefault("")
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Defaults.Format == "" {
		t.Error("expected default format to be set")
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	// A path that doesn't exist should fall back to defaults
	cfg := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
}

func TestLoadConfigOrDefault_ValidFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
defaults:
  format: json
  workers: 8
redaction:
  strategy: mask
  overrides:
    PERSON: placeholder
  fields:
    - sentence
    - notes
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := LoadConfigOrDefault(configPath)
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Defaults.Format != "json" {
		t.Errorf("expected format=json, got %q", cfg.Defaults.Format)
	}
	if cfg.Defaults.Workers != 8 {
		t.Errorf("expected workers=8, got %d", cfg.Defaults.Workers)
	}
	if cfg.Redaction.Strategy != "mask" {
		t.Errorf("expected strategy=mask, got %q", cfg.Redaction.Strategy)
	}
	if cfg.Redaction.Overrides["PERSON"] != "placeholder" {
		t.Errorf("expected PERSON override=placeholder, got %q", cfg.Redaction.Overrides["PERSON"])
	}
	if len(cfg.Redaction.Fields) != 2 || cfg.Redaction.Fields[1] != "notes" {
		t.Errorf("unexpected fields: %v", cfg.Redaction.Fields)
	}
}

func TestLoadConfigOrDefault_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(configPath, []byte(":::invalid yaml:::"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Should fall back to defaults, not panic
	cfg := LoadConfigOrDefault(configPath)
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format=text, got %q", cfg.Defaults.Format)
	}
	if cfg.Redaction.Strategy != "placeholder" {
		t.Errorf("expected default strategy=placeholder, got %q", cfg.Redaction.Strategy)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	// A file that only sets workers must not clobber the other defaults
	content := `
defaults:
  workers: 4
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Workers != 4 {
		t.Errorf("expected workers=4, got %d", cfg.Defaults.Workers)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected format to keep default text, got %q", cfg.Defaults.Format)
	}
	if cfg.Redaction.Strategy != "placeholder" {
		t.Errorf("expected strategy to keep default placeholder, got %q", cfg.Redaction.Strategy)
	}
}

func TestFileExists_StatErrorTreatedAsMissing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if !fileExists(file) {
		t.Error("expected true for a regular file")
	}
	if fileExists(dir) {
		t.Error("expected false for a directory")
	}
	// A path whose parent is a regular file fails os.Stat with an error
	// that is not IsNotExist (ENOTDIR); it must report missing, not panic.
	if fileExists(filepath.Join(file, "child")) {
		t.Error("expected false for a path under a regular file")
	}
}

func TestGetProfile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
profiles:
  strict:
    format: json
    description: Remove all PII outright
    redaction:
      strategy: remove
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	profile := cfg.GetProfile("strict")
	if profile == nil {
		t.Fatal("expected strict profile")
	}
	if profile.Redaction.Strategy != "remove" {
		t.Errorf("expected strategy=remove, got %q", profile.Redaction.Strategy)
	}
	if cfg.GetProfile("missing") != nil {
		t.Error("expected nil for unknown profile")
	}
	if names := cfg.ListProfiles(); len(names) != 1 {
		t.Errorf("expected one profile, got %v", names)
	}
}
