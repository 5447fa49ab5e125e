// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package guidance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Sampling", want: "sampling"},
		{in: "best-practices", want: "best_practices"},
		{in: "  Best Practices  ", want: "best_practices"},
		{in: "TOOLS", want: "tools"},
	}

	for _, tt := range tests {
		if got := NormalizeTopic(tt.in); got != tt.want {
			t.Errorf("NormalizeTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmbeddedTopics(t *testing.T) {
	m := NewManager("", time.Minute)

	for _, topic := range []string{"sampling", "resources", "tools", "prompts", "best_practices"} {
		content := m.Content(topic)
		if strings.Contains(content, "not yet available") {
			t.Errorf("expected embedded content for %s", topic)
		}
		if !strings.HasPrefix(content, "# ") {
			t.Errorf("expected markdown heading for %s, got: %.40s", topic, content)
		}
	}
}

func TestUnknownTopicFallback(t *testing.T) {
	m := NewManager("", time.Minute)

	content := m.Content("quantum_servers")
	if !strings.Contains(content, "not yet available") {
		t.Errorf("expected fallback message, got: %.80s", content)
	}
	if !strings.Contains(content, "sampling") {
		t.Error("fallback should name available topics")
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "# Custom sampling guidance\n"
	if err := os.WriteFile(filepath.Join(dir, "sampling.md"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir, time.Minute)

	if got := m.Content("sampling"); got != custom {
		t.Errorf("expected disk override, got: %.60s", got)
	}
}

func TestTopicCannotEscapeOverrideDir(t *testing.T) {
	base := t.TempDir()
	overrideDir := filepath.Join(base, "guidance")
	if err := os.MkdirAll(overrideDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// A file outside the override dir must never be readable through a topic
	outside := filepath.Join(base, "secret.md")
	if err := os.WriteFile(outside, []byte("TOP SECRET"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(overrideDir, time.Minute)

	for _, topic := range []string{"../secret", "../../secret", "sub/../../secret", "..", "a/b"} {
		content := m.Content(topic)
		if strings.Contains(content, "TOP SECRET") {
			t.Errorf("topic %q read a file outside the override dir", topic)
		}
		if !strings.Contains(content, "not yet available") {
			t.Errorf("topic %q should fall back, got: %.60s", topic, content)
		}
	}
}

func TestTopicNormalizationOnLookup(t *testing.T) {
	m := NewManager("", time.Minute)

	direct := m.Content("best_practices")
	dashed := m.Content("Best-Practices")
	if direct != dashed {
		t.Error("normalized lookups should resolve to the same content")
	}
}

func TestTopicsListsOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "deployment.md"), []byte("# Deploy\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir, time.Minute)

	topics := m.Topics()
	found := false
	for _, topic := range topics {
		if topic == "deployment" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected deployment in topics, got %v", topics)
	}
}

func TestContentCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sampling.md")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir, time.Hour)

	if got := m.Content("sampling"); got != "v1" {
		t.Fatalf("expected v1, got %q", got)
	}
	if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Within the TTL the cached copy is served.
	if got := m.Content("sampling"); got != "v1" {
		t.Errorf("expected cached v1, got %q", got)
	}
}
