// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if config == nil {
		t.Fatal("expected config, got nil")
	}

	if config.Defaults.Language != "python" {
		t.Errorf("expected default language 'python', got %s", config.Defaults.Language)
	}
	if config.Defaults.TemplateType != "basic" {
		t.Errorf("expected default template type 'basic', got %s", config.Defaults.TemplateType)
	}
	if config.Defaults.Timeout != 30 {
		t.Errorf("expected default timeout 30, got %d", config.Defaults.Timeout)
	}
	if config.AI.Endpoint != "https://api.x.ai" {
		t.Errorf("unexpected default AI endpoint: %s", config.AI.Endpoint)
	}
	if config.AI.MaxTokens != 4096 {
		t.Errorf("expected default max tokens 4096, got %d", config.AI.MaxTokens)
	}
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"defaults": {"language": "typescript", "templateType": "basic", "timeoutSeconds": 60},
		"ai": {"model": "test-model", "maxTokens": 512}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if config.Defaults.Language != "typescript" {
		t.Errorf("expected language 'typescript', got %s", config.Defaults.Language)
	}
	if config.Defaults.Timeout != 60 {
		t.Errorf("expected timeout 60, got %d", config.Defaults.Timeout)
	}
	if config.AI.Model != "test-model" {
		t.Errorf("expected model 'test-model', got %s", config.AI.Model)
	}
	if config.AI.MaxTokens != 512 {
		t.Errorf("expected max tokens 512, got %d", config.AI.MaxTokens)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
defaults:
  language: go
  timeoutSeconds: 45
ai:
  model: yaml-model
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if config.Defaults.Language != "go" {
		t.Errorf("expected language 'go', got %s", config.Defaults.Language)
	}
	if config.Defaults.Timeout != 45 {
		t.Errorf("expected timeout 45, got %d", config.Defaults.Timeout)
	}
	if config.AI.Model != "yaml-model" {
		t.Errorf("expected model 'yaml-model', got %s", config.AI.Model)
	}
	// Template type was omitted, so the default should backfill it
	if config.Defaults.TemplateType != "basic" {
		t.Errorf("expected backfilled template type 'basic', got %s", config.Defaults.TemplateType)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig("/nonexistent/config.json")
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfig_EnvAPIKey(t *testing.T) {
	t.Setenv("CREATOR_AI_APIKEY", "env-key")

	config, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if config.AI.APIKey != "env-key" {
		t.Errorf("expected API key from environment, got %q", config.AI.APIKey)
	}
}

func TestLoadConfig_FileKeyWinsOverEnv(t *testing.T) {
	t.Setenv("CREATOR_AI_APIKEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"ai": {"apiKey": "file-key"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if config.AI.APIKey != "file-key" {
		t.Errorf("expected file API key to win, got %q", config.AI.APIKey)
	}
}

func TestDetectConfigFormat(t *testing.T) {
	tests := []struct {
		path string
		want configFormat
	}{
		{"config.json", configFormatJSON},
		{"config.yaml", configFormatYAML},
		{"config.yml", configFormatYAML},
		{"config.YAML", configFormatYAML},
		{"config", configFormatJSON},
	}
	for _, tt := range tests {
		if got := detectConfigFormat(tt.path); got != tt.want {
			t.Errorf("detectConfigFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
