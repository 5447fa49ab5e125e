// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package tplgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	scaffoldtpl "github.com/forgeworks/mcp-creator/src/internal/scaffold/template"
)

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "definition.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write definition: %v", err)
	}
	return path
}

const pythonDefinition = `{
	"language": "python",
	"name": "weather",
	"description": "Weather lookup MCP server",
	"features": ["tools"],
	"tools": [
		{
			"name": "get_forecast",
			"description": "Fetch the forecast for a city",
			"params": [
				{"name": "city", "description": "City name", "type": "string", "required": true},
				{"name": "days", "description": "Days ahead", "type": "number", "required": false}
			]
		}
	]
}`

func TestGenerate_Python(t *testing.T) {
	defPath := writeDefinition(t, pythonDefinition)
	outputRoot := t.TempDir()

	if err := Generate(defPath, outputRoot); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	dir := filepath.Join(outputRoot, "languages", "python", "weather")
	skeleton, err := os.ReadFile(filepath.Join(dir, "server.py.tmpl"))
	if err != nil {
		t.Fatalf("expected skeleton file: %v", err)
	}

	content := string(skeleton)
	for _, want := range []string{
		"{{.server_name}}",
		"{{.description}}",
		"def get_forecast(city: str, days: float | None = None) -> str:",
		"Fetch the forecast for a city",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("skeleton missing %q:\n%s", want, content)
		}
	}
}

// The generated directory must load and render through the catalog manager
// without manual fixes.
func TestGenerate_LoadsIntoCatalog(t *testing.T) {
	defPath := writeDefinition(t, pythonDefinition)
	outputRoot := t.TempDir()

	if err := Generate(defPath, outputRoot); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	mgr, err := scaffoldtpl.NewManager(scaffoldtpl.ManagerConfig{Root: outputRoot})
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	tpl, err := mgr.Get("python", "weather")
	if err != nil {
		t.Fatalf("generated template not in catalog: %v", err)
	}
	if tpl.Metadata.Description != "Weather lookup MCP server" {
		t.Errorf("unexpected description: %s", tpl.Metadata.Description)
	}

	rendered, err := mgr.Render("python", "weather", map[string]any{
		"server_name": "weather_server",
		"description": "A rendered weather server",
	})
	if err != nil {
		t.Fatalf("generated template failed to render: %v", err)
	}
	if !strings.Contains(rendered, `FastMCP("weather_server")`) {
		t.Errorf("rendered output missing server name:\n%s", rendered)
	}
}

func TestGenerate_TypeScriptAndGo(t *testing.T) {
	for _, lang := range []string{"typescript", "go"} {
		def := strings.Replace(pythonDefinition, `"python"`, `"`+lang+`"`, 1)
		defPath := writeDefinition(t, def)
		outputRoot := t.TempDir()

		if err := Generate(defPath, outputRoot); err != nil {
			t.Fatalf("%s: generate failed: %v", lang, err)
		}

		name := "server" + scaffoldtpl.MainFileExt(lang) + ".tmpl"
		skeleton, err := os.ReadFile(filepath.Join(outputRoot, "languages", lang, "weather", name))
		if err != nil {
			t.Fatalf("%s: expected skeleton file: %v", lang, err)
		}
		if !strings.Contains(string(skeleton), "get_forecast") {
			t.Errorf("%s: skeleton missing tool name:\n%s", lang, skeleton)
		}
	}
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr string
	}{
		{
			name:    "bad language",
			def:     Definition{Language: "rust", Name: "basic", Description: "x"},
			wantErr: "invalid language",
		},
		{
			name:    "bad name",
			def:     Definition{Language: "python", Name: "Has Spaces", Description: "x"},
			wantErr: "invalid name",
		},
		{
			name:    "missing description",
			def:     Definition{Language: "python", Name: "basic"},
			wantErr: "description is required",
		},
		{
			name:    "no tools",
			def:     Definition{Language: "python", Name: "basic", Description: "x"},
			wantErr: "at least one tool",
		},
		{
			name: "duplicate tool",
			def: Definition{Language: "python", Name: "basic", Description: "x",
				Tools: []ToolDefinition{{Name: "echo"}, {Name: "echo"}}},
			wantErr: "duplicate name",
		},
		{
			name: "bad param type",
			def: Definition{Language: "python", Name: "basic", Description: "x",
				Tools: []ToolDefinition{{Name: "echo", Params: []ToolParam{
					{Name: "msg", Type: "object"},
				}}}},
			wantErr: "invalid type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDefinition(&tt.def)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}
