// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package generator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/forgeworks/mcp-creator/src/internal/scaffold/template"
)

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	tm, err := template.NewManager(template.ManagerConfig{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if cfg.DefaultOutputDir == "" {
		cfg.DefaultOutputDir = t.TempDir()
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = 3
	}
	return New(cfg, tm)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already clean", in: "weather", want: "weather"},
		{name: "spaces and dashes", in: "My Weather-Server", want: "my_weather_server"},
		{name: "leading digit", in: "3d_printer", want: "mcp_3d_printer"},
		{name: "leading underscore", in: "_private", want: "mcp__private"},
		{name: "uppercase", in: "WeatherAPI", want: "weatherapi"},
		{name: "empty", in: "", want: "mcp_server"},
		{name: "symbols only", in: "!!!", want: "mcp____"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateWritesProject(t *testing.T) {
	out := t.TempDir()
	g := newTestGenerator(t, Config{DefaultOutputDir: out, Sandbox: true})

	result, err := g.Generate(context.Background(), ServerSpec{
		Name:        "Test Server",
		Description: "A test MCP server",
		Language:    "python",
		Features:    []string{"tools"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.ServerName != "test_server" {
		t.Errorf("unexpected server name: %s", result.ServerName)
	}
	if result.TemplateKey != "python:basic" {
		t.Errorf("unexpected template key: %s", result.TemplateKey)
	}

	mainPath := filepath.Join(result.OutputDir, result.MainFile)
	source, err := os.ReadFile(mainPath)
	if err != nil {
		t.Fatalf("failed to read generated main file: %v", err)
	}
	if !strings.Contains(string(source), "test_server") {
		t.Errorf("main file missing server name:\n%s", source)
	}

	readme, err := os.ReadFile(filepath.Join(result.OutputDir, "README.md"))
	if err != nil {
		t.Fatalf("failed to read README: %v", err)
	}
	if !strings.Contains(string(readme), "A test MCP server") {
		t.Error("README missing description")
	}

	configData, err := os.ReadFile(filepath.Join(result.OutputDir, "claude_config.json"))
	if err != nil {
		t.Fatalf("failed to read client config: %v", err)
	}
	var cfg map[string]any
	if err := json.Unmarshal(configData, &cfg); err != nil {
		t.Fatalf("client config is not valid JSON: %v", err)
	}
	servers, ok := cfg["mcpServers"].(map[string]any)
	if !ok {
		t.Fatal("client config missing mcpServers block")
	}
	if _, ok := servers["test_server"]; !ok {
		t.Error("client config missing server entry")
	}
}

func TestGenerateDefaults(t *testing.T) {
	g := newTestGenerator(t, Config{})

	result, err := g.Generate(context.Background(), ServerSpec{
		Name:        "defaults",
		Description: "uses default language and template",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.TemplateKey != "python:basic" {
		t.Errorf("expected python:basic defaults, got %s", result.TemplateKey)
	}
	if result.MainFile != "defaults.py" {
		t.Errorf("unexpected main file: %s", result.MainFile)
	}
}

func TestGenerateMissingTemplateSuggestsAlternatives(t *testing.T) {
	g := newTestGenerator(t, Config{})

	_, err := g.Generate(context.Background(), ServerSpec{
		Name:         "x",
		Description:  "d",
		Language:     "python",
		TemplateType: "nonexistent",
	})
	if err == nil {
		t.Fatal("expected error for missing template")
	}
	if !strings.Contains(err.Error(), "python:basic") {
		t.Errorf("expected suggestions in error, got: %v", err)
	}
}

func TestGenerateSandboxRejectsEscape(t *testing.T) {
	out := t.TempDir()
	g := newTestGenerator(t, Config{DefaultOutputDir: out, Sandbox: true})

	_, err := g.Generate(context.Background(), ServerSpec{
		Name:        "escape",
		Description: "d",
		OutputDir:   filepath.Join(out, ".."),
	})
	if err == nil {
		t.Fatal("expected sandbox violation error")
	}
	if !strings.Contains(err.Error(), "sandbox") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerateSandboxDisabledAllowsOutside(t *testing.T) {
	g := newTestGenerator(t, Config{DefaultOutputDir: t.TempDir(), Sandbox: false})

	elsewhere := t.TempDir()
	result, err := g.Generate(context.Background(), ServerSpec{
		Name:        "free",
		Description: "d",
		OutputDir:   elsewhere,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasPrefix(result.OutputDir, elsewhere) {
		t.Errorf("expected output under %s, got %s", elsewhere, result.OutputDir)
	}
}

func TestGenerateRequiresName(t *testing.T) {
	g := newTestGenerator(t, Config{})

	if _, err := g.Generate(context.Background(), ServerSpec{Description: "d"}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestGenerateConcurrent(t *testing.T) {
	g := newTestGenerator(t, Config{MaxConcurrent: 2})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = g.Generate(context.Background(), ServerSpec{
				Name:        "concurrent_" + string(rune('a'+i)),
				Description: "d",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("generation %d failed: %v", i, err)
		}
	}
}
