// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/sync/semaphore"

	"github.com/forgeworks/mcp-creator/src/internal/scaffold/template"
)

// ServerSpec describes the MCP server to generate.
type ServerSpec struct {
	// Name: Desired server name; sanitized into a valid identifier before use
	Name string `json:"name" validate:"required"`
	// Description: Human-readable summary embedded in the generated project
	Description string `json:"description" validate:"required"`
	// Language: Target language (defaults to python)
	Language string `json:"language,omitempty"`
	// TemplateType: Template name within the language (defaults to basic)
	TemplateType string `json:"template_type,omitempty"`
	// Features: Requested capabilities, recorded in the generated README
	Features []string `json:"features,omitempty"`
	// OutputDir: Explicit output directory; empty uses the configured default
	OutputDir string `json:"output_dir,omitempty"`
}

// Result summarizes a completed generation.
type Result struct {
	// ServerName: Sanitized server name used for the project
	ServerName string `json:"serverName"`
	// OutputDir: Directory the project was written to
	OutputDir string `json:"outputDir"`
	// TemplateKey: Catalog key of the template used
	TemplateKey string `json:"templateKey"`
	// MainFile: Generated main source file name
	MainFile string `json:"mainFile"`
	// Files: All files written, relative to OutputDir
	Files []string `json:"files"`
	// ClientConfig: Client configuration snippet for connecting to the server
	ClientConfig map[string]any `json:"clientConfig"`
}

// Config carries the tunables for a [Generator].
type Config struct {
	// DefaultOutputDir: Base directory for generated servers
	DefaultOutputDir string
	// MaxConcurrent: Maximum simultaneous generations
	MaxConcurrent int
	// Sandbox: When true, output must stay beneath DefaultOutputDir
	Sandbox bool
}

// Generator renders templates into server projects.
//
// Generator is safe for concurrent use by multiple goroutines.
type Generator struct {
	cfg       Config
	templates *template.Manager
	sem       *semaphore.Weighted
}

// New creates a generator backed by the given template manager.
func New(cfg Config, templates *template.Manager) *Generator {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Generator{
		cfg:       cfg,
		templates: templates,
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}
}

// SanitizeName converts an arbitrary server name into a valid identifier.
// Non-alphanumeric runes become underscores, a leading non-letter gains an
// mcp_ prefix, and the result is lowercased.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		return "mcp_server"
	}
	if first := rune(s[0]); !unicode.IsLetter(first) {
		s = "mcp_" + s
	}
	return s
}

// Generate renders the requested template and writes the server project.
//
// The main source file, a README.md, and a claude_config.json with an
// mcpServers entry are written to the resolved output directory. When the
// requested template does not exist, the error lists up to three alternative
// templates for the language.
//
// Parameters:
//   - ctx: Context bounding semaphore acquisition and generation
//   - spec: The server to generate
//
// Returns:
//   - A pointer to the generation Result
//   - An error if the template is missing, the output directory escapes the
//     sandbox, or any file cannot be written
func (g *Generator) Generate(ctx context.Context, spec ServerSpec) (*Result, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("generation canceled while waiting for a slot: %w", err)
	}
	defer g.sem.Release(1)

	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if spec.Language == "" {
		spec.Language = "python"
	}
	if spec.TemplateType == "" {
		spec.TemplateType = "basic"
	}

	tpl, err := g.templates.Get(spec.Language, spec.TemplateType)
	if err != nil {
		if alts := g.templates.Suggest(spec.Language, 3); len(alts) > 0 {
			return nil, fmt.Errorf("template %s not found; available for %s: %s",
				template.Key(spec.Language, spec.TemplateType), spec.Language, strings.Join(alts, ", "))
		}
		return nil, err
	}

	serverName := SanitizeName(spec.Name)
	outputDir, err := g.resolveOutputDir(spec.OutputDir, serverName)
	if err != nil {
		return nil, err
	}

	mainSource, err := g.templates.Render(spec.Language, spec.TemplateType, map[string]any{
		"server_name": serverName,
		"description": spec.Description,
		"features":    spec.Features,
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	mainFile := serverName + template.MainFileExt(spec.Language)
	files := []string{mainFile, "README.md", "claude_config.json"}

	if err := os.WriteFile(filepath.Join(outputDir, mainFile), []byte(mainSource), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", mainFile, err)
	}

	readme := g.renderReadme(serverName, spec, tpl.Key(), mainFile)
	if err := os.WriteFile(filepath.Join(outputDir, "README.md"), []byte(readme), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write README.md: %w", err)
	}

	clientConfig := clientConfigFor(serverName, spec.Language, filepath.Join(outputDir, mainFile))
	configData, err := json.MarshalIndent(clientConfig, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode client config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "claude_config.json"), append(configData, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write claude_config.json: %w", err)
	}

	return &Result{
		ServerName:   serverName,
		OutputDir:    outputDir,
		TemplateKey:  tpl.Key(),
		MainFile:     mainFile,
		Files:        files,
		ClientConfig: clientConfig,
	}, nil
}

// resolveOutputDir picks the project directory, enforcing the sandbox when
// enabled. The server name is always appended so projects never collide at
// the base directory level.
func (g *Generator) resolveOutputDir(explicit, serverName string) (string, error) {
	base := explicit
	if base == "" {
		base = g.cfg.DefaultOutputDir
	}

	dir, err := filepath.Abs(filepath.Join(base, serverName))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}

	if g.cfg.Sandbox {
		root, err := filepath.Abs(g.cfg.DefaultOutputDir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve sandbox root: %w", err)
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("output directory %s escapes the sandbox root %s", dir, root)
		}
	}
	return dir, nil
}

// renderReadme builds the generated project's README contents.
func (g *Generator) renderReadme(serverName string, spec ServerSpec, templateKey, mainFile string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", serverName, spec.Description)
	fmt.Fprintf(&b, "Generated from template `%s`.\n\n", templateKey)
	if len(spec.Features) > 0 {
		b.WriteString("## Features\n\n")
		for _, f := range spec.Features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}
	b.WriteString("## Running\n\n")
	fmt.Fprintf(&b, "%s\n\n", runInstructions(spec.Language, mainFile))
	b.WriteString("## Client configuration\n\n")
	b.WriteString("Add the `claude_config.json` contents to your MCP client's server list.\n")
	return b.String()
}

// runInstructions returns the language-appropriate run command for the README.
func runInstructions(language, mainFile string) string {
	switch strings.ToLower(language) {
	case "python":
		return fmt.Sprintf("```\npython %s\n```", mainFile)
	case "typescript":
		return fmt.Sprintf("```\nnpx tsx %s\n```", mainFile)
	case "go":
		return fmt.Sprintf("```\ngo run %s\n```", mainFile)
	default:
		return fmt.Sprintf("Run `%s` with your %s toolchain.", mainFile, language)
	}
}

// clientConfigFor builds the mcpServers block written to claude_config.json.
func clientConfigFor(serverName, language, mainPath string) map[string]any {
	var command string
	var args []string
	switch strings.ToLower(language) {
	case "python":
		command, args = "python", []string{mainPath}
	case "typescript":
		command, args = "npx", []string{"tsx", mainPath}
	case "go":
		command, args = "go", []string{"run", mainPath}
	default:
		command, args = mainPath, nil
	}
	return map[string]any{
		"mcpServers": map[string]any{
			serverName: map[string]any{
				"command": command,
				"args":    args,
			},
		},
	}
}
