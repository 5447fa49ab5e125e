// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package tplgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"text/template"

	scaffoldtpl "github.com/forgeworks/mcp-creator/src/internal/scaffold/template"
)

// Definition describes a builtin template to generate. It is loaded from a
// JSON file authored by a catalog maintainer.
type Definition struct {
	// Language: Target language of the generated server (python, typescript, or go)
	Language string `json:"language"`
	// Name: Template identifier within its language (e.g., "basic")
	Name string `json:"name"`
	// Description: Human-readable summary of what the template scaffolds
	Description string `json:"description"`
	// Features: Capabilities the generated server includes
	Features []string `json:"features,omitempty"`
	// Tools: Tools the skeleton server registers
	Tools []ToolDefinition `json:"tools"`
}

// ToolDefinition represents a tool the skeleton registers
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ToolParam `json:"params,omitempty"`
}

// ToolParam represents a parameter for a tool
type ToolParam struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"` // string, number, boolean
	Required    bool   `json:"required"`
}

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// getTplgenDir returns the absolute path to the tplgen directory
func getTplgenDir() string {
	_, currentFile, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(currentFile)) // Go up from internal/ to tplgen/
}

// DefaultOutputRoot returns the embedded catalog root that ships with the
// server binary. New templates land there and are picked up by the next build.
func DefaultOutputRoot() string {
	return filepath.Join(getTplgenDir(), "..", "..",
		"internal", "scaffold", "template", "builtin")
}

// loadDefinition loads and validates a template definition from a JSON file
func loadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition from %s: %w", path, err)
	}

	def := &Definition{}
	if err := json.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("parsing definition: %w", err)
	}

	if err := validateDefinition(def); err != nil {
		return nil, fmt.Errorf("validating definition: %w", err)
	}
	return def, nil
}

// validateDefinition validates the loaded definition
func validateDefinition(def *Definition) error {
	switch strings.ToLower(def.Language) {
	case "python", "typescript", "go":
	default:
		return fmt.Errorf("invalid language '%s', must be python, typescript, or go", def.Language)
	}
	if !nameRe.MatchString(def.Name) {
		return fmt.Errorf("invalid name '%s', must be lowercase alphanumeric", def.Name)
	}
	if def.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(def.Tools) == 0 {
		return fmt.Errorf("at least one tool is required")
	}
	return validateTools(def.Tools)
}

// validateTools validates tool definitions
func validateTools(tools []ToolDefinition) error {
	toolNames := make(map[string]bool)
	for i, tool := range tools {
		if !nameRe.MatchString(tool.Name) {
			return fmt.Errorf("tool %d: invalid name '%s'", i, tool.Name)
		}
		if toolNames[tool.Name] {
			return fmt.Errorf("tool %d: duplicate name '%s'", i, tool.Name)
		}
		toolNames[tool.Name] = true

		if err := validateToolParams(tool.Params, i); err != nil {
			return err
		}
	}
	return nil
}

// validateToolParams validates tool parameters
func validateToolParams(params []ToolParam, toolIndex int) error {
	paramNames := make(map[string]bool)
	for j, param := range params {
		if !nameRe.MatchString(param.Name) {
			return fmt.Errorf("tool %d param %d: invalid name '%s'", toolIndex, j, param.Name)
		}
		if param.Type != "string" && param.Type != "number" && param.Type != "boolean" {
			return fmt.Errorf("tool %d param %d: invalid type '%s', must be string, number, or boolean", toolIndex, j, param.Type)
		}
		if paramNames[param.Name] {
			return fmt.Errorf("tool %d param %d: duplicate parameter name '%s'", toolIndex, j, param.Name)
		}
		paramNames[param.Name] = true
	}
	return nil
}

// Generate creates a builtin template directory from a definition file. The
// directory lands under outputRoot/languages/<language>/<name>; an empty
// outputRoot targets the embedded catalog in the source tree.
func Generate(definitionPath, outputRoot string) error {
	def, err := loadDefinition(definitionPath)
	if err != nil {
		return err
	}

	if outputRoot == "" {
		outputRoot = DefaultOutputRoot()
	}
	dir := filepath.Join(outputRoot, "languages",
		strings.ToLower(def.Language), strings.ToLower(def.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating template directory: %w", err)
	}

	if err := writeMetadata(dir, def); err != nil {
		return err
	}
	return writeSkeleton(dir, def)
}

// writeMetadata writes the template's metadata.json
func writeMetadata(dir string, def *Definition) error {
	meta := scaffoldtpl.Metadata{
		Name:        strings.ToLower(def.Name),
		Description: def.Description,
		Language:    strings.ToLower(def.Language),
		Features:    def.Features,
		Variables:   []string{"server_name", "description"},
		MainTemplate: "server" +
			scaffoldtpl.MainFileExt(def.Language) + ".tmpl",
	}

	data, err := json.MarshalIndent(meta, "", "\t")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return writeGeneratedFile(filepath.Join(dir, "metadata.json"), append(data, '\n'))
}

// writeSkeleton renders the language skeleton into server.<ext>.tmpl.
//
// The skeleton templates use [[ ]] delimiters so that the {{.server_name}}
// and {{.description}} placeholders survive into the generated file, where
// the catalog renders them at scaffold time.
func writeSkeleton(dir string, def *Definition) error {
	var text string
	switch strings.ToLower(def.Language) {
	case "python":
		text = pythonSkeleton
	case "typescript":
		text = typescriptSkeleton
	case "go":
		text = goSkeleton
	}

	tmpl, err := template.New("skeleton").Delims("[[", "]]").Funcs(template.FuncMap{
		"pySig":  pythonSignature,
		"zodKey": zodKey,
		"goOpt":  goParamOption,
	}).Parse(text)
	if err != nil {
		return fmt.Errorf("parsing skeleton template: %w", err)
	}

	var code strings.Builder
	if err := tmpl.Execute(&code, def); err != nil {
		return fmt.Errorf("executing skeleton template: %w", err)
	}

	name := "server" + scaffoldtpl.MainFileExt(def.Language) + ".tmpl"
	return writeGeneratedFile(filepath.Join(dir, name), []byte(code.String()))
}

func writeGeneratedFile(filename string, content []byte) error {
	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	fmt.Printf("Generated %s successfully\n", filename)
	return nil
}

// pythonSignature renders a Python parameter list for a tool
func pythonSignature(params []ToolParam) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		var pyType string
		switch p.Type {
		case "number":
			pyType = "float"
		case "boolean":
			pyType = "bool"
		default:
			pyType = "str"
		}
		if p.Required {
			parts = append(parts, p.Name+": "+pyType)
		} else {
			parts = append(parts, p.Name+": "+pyType+" | None = None")
		}
	}
	return strings.Join(parts, ", ")
}

// zodKey renders a zod schema entry for a parameter
func zodKey(p ToolParam) string {
	var z string
	switch p.Type {
	case "number":
		z = "z.number()"
	case "boolean":
		z = "z.boolean()"
	default:
		z = "z.string()"
	}
	if !p.Required {
		z += ".optional()"
	}
	return p.Name + ": " + z
}

// goParamOption renders an mcp-go parameter option for a parameter
func goParamOption(p ToolParam) string {
	var with string
	switch p.Type {
	case "number":
		with = "mcp.WithNumber"
	case "boolean":
		with = "mcp.WithBoolean"
	default:
		with = "mcp.WithString"
	}
	opts := fmt.Sprintf("%s(%q", with, p.Name)
	if p.Required {
		opts += ", mcp.Required()"
	}
	opts += fmt.Sprintf(", mcp.Description(%q))", p.Description)
	return opts
}

const pythonSkeleton = `"""{{.description}}"""

from mcp.server.fastmcp import FastMCP

mcp = FastMCP("{{.server_name}}")

[[range .Tools]]
@mcp.tool()
def [[.Name]]([[pySig .Params]]) -> str:
    """[[.Description]]"""
    raise NotImplementedError

[[end]]
if __name__ == "__main__":
    mcp.run()
`

const typescriptSkeleton = `// {{.description}}

import { McpServer } from "@modelcontextprotocol/sdk/server/mcp.js";
import { StdioServerTransport } from "@modelcontextprotocol/sdk/server/stdio.js";
import { z } from "zod";

const server = new McpServer({
  name: "{{.server_name}}",
  version: "0.1.0",
});
[[range .Tools]]
server.tool("[[.Name]]", { [[range $i, $p := .Params]][[if $i]], [[end]][[zodKey $p]][[end]] }, async (args) => {
  // [[.Description]]
  throw new Error("not implemented");
});
[[end]]
const transport = new StdioServerTransport();
await server.connect(transport);
`

const goSkeleton = `// {{.description}}
package main

import (
	"context"
	"errors"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	s := server.NewMCPServer("{{.server_name}}", "0.1.0",
		server.WithToolCapabilities(true),
	)
[[range .Tools]]
	s.AddTool(mcp.NewTool("[[.Name]]",
		mcp.WithDescription("[[.Description]]"),[[range .Params]]
		[[goOpt .]],[[end]]
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("not implemented")
	})
[[end]]
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
`
