// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so host environment leakage
// cannot affect the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DEFAULT_OUTPUT_DIR", "TEMPLATE_CACHE_DIR", "WORKFLOW_SAVE_DIR",
		"LOG_LEVEL", "GRADIO_SERVER_PORT", "GRADIO_SHARE",
		"GRADIO_AUTH_ENABLED", "GRADIO_AUTH", "MAX_CONCURRENT_GENERATIONS",
		"TEMPLATE_UPDATE_CHECK", "WORKFLOW_BACKUP_ENABLED", "ENABLE_SANDBOX",
		"MAX_TEMPLATE_SIZE_MB", "MAX_WORKFLOW_DURATION_MINUTES",
		"DEBUG_MODE", "VERBOSE_LOGGING",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	t.Setenv("DEFAULT_OUTPUT_DIR", filepath.Join(tmp, "out"))
	t.Setenv("TEMPLATE_CACHE_DIR", filepath.Join(tmp, "templates"))
	t.Setenv("WORKFLOW_SAVE_DIR", filepath.Join(tmp, "workflows"))
	t.Chdir(tmp)

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.LogLevel != "INFO" {
		t.Errorf("expected LogLevel INFO, got %s", s.LogLevel)
	}
	if s.WebPort != 7860 {
		t.Errorf("expected WebPort 7860, got %d", s.WebPort)
	}
	if !s.TemplateUpdateCheck {
		t.Error("expected TemplateUpdateCheck enabled by default")
	}
	if !s.WorkflowBackupEnabled {
		t.Error("expected WorkflowBackupEnabled enabled by default")
	}
	if !s.EnableSandbox {
		t.Error("expected EnableSandbox enabled by default")
	}
	if s.MaxConcurrentGenerations != 3 {
		t.Errorf("expected MaxConcurrentGenerations 3, got %d", s.MaxConcurrentGenerations)
	}
	if s.MaxTemplateSizeBytes() != 10*1024*1024 {
		t.Errorf("unexpected template size limit: %d", s.MaxTemplateSizeBytes())
	}
	if s.MaxWorkflowDuration() != 30*time.Minute {
		t.Errorf("unexpected workflow duration: %v", s.MaxWorkflowDuration())
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	t.Chdir(tmp)

	t.Setenv("DEFAULT_OUTPUT_DIR", filepath.Join(tmp, "servers"))
	t.Setenv("TEMPLATE_CACHE_DIR", filepath.Join(tmp, "tpl"))
	t.Setenv("WORKFLOW_SAVE_DIR", filepath.Join(tmp, "wf"))
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GRADIO_SERVER_PORT", "8080")
	t.Setenv("GRADIO_SHARE", "true")
	t.Setenv("MAX_CONCURRENT_GENERATIONS", "7")
	t.Setenv("ENABLE_SANDBOX", "false")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.LogLevel != "DEBUG" {
		t.Errorf("expected LogLevel DEBUG, got %s", s.LogLevel)
	}
	if s.WebPort != 8080 {
		t.Errorf("expected WebPort 8080, got %d", s.WebPort)
	}
	if !s.WebShare {
		t.Error("expected WebShare enabled")
	}
	if s.MaxConcurrentGenerations != 7 {
		t.Errorf("expected MaxConcurrentGenerations 7, got %d", s.MaxConcurrentGenerations)
	}
	if s.EnableSandbox {
		t.Error("expected EnableSandbox disabled")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad port", key: "GRADIO_SERVER_PORT", value: "not-a-number"},
		{name: "bad bool", key: "GRADIO_SHARE", value: "maybe"},
		{name: "bad log level", key: "LOG_LEVEL", value: "LOUD"},
		{name: "zero generations", key: "MAX_CONCURRENT_GENERATIONS", value: "0"},
		{name: "port out of range", key: "GRADIO_SERVER_PORT", value: "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			tmp := t.TempDir()
			t.Chdir(tmp)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestWebCredentials(t *testing.T) {
	tests := []struct {
		name     string
		auth     string
		wantUser string
		wantPass string
		wantOK   bool
	}{
		{name: "well formed", auth: "admin:s3cret", wantUser: "admin", wantPass: "s3cret", wantOK: true},
		{name: "empty", auth: "", wantOK: false},
		{name: "missing separator", auth: "admin", wantOK: false},
		{name: "empty password", auth: "admin:", wantOK: false},
		{name: "password with colon", auth: "admin:a:b", wantUser: "admin", wantPass: "a:b", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{WebAuth: tt.auth}
			user, pass, ok := s.WebCredentials()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if user != tt.wantUser || pass != tt.wantPass {
				t.Errorf("got %q/%q, want %q/%q", user, pass, tt.wantUser, tt.wantPass)
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	t.Chdir(tmp)

	// godotenv never overrides variables already present in the process
	// environment, so the port must be fully unset for the .env value to
	// take effect. t.Setenv registers the restore before the unset.
	t.Setenv("GRADIO_SERVER_PORT", "")
	os.Unsetenv("GRADIO_SERVER_PORT")

	envFile := filepath.Join(tmp, ".env")
	if err := os.WriteFile(envFile, []byte("GRADIO_SERVER_PORT=9100\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.WebPort != 9100 {
		t.Errorf("expected port 9100 from .env, got %d", s.WebPort)
	}
}
