// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forgeworks/mcp-creator/src/internal/scaffold/generator"
	"github.com/forgeworks/mcp-creator/src/logger"
)

// ServerGenerator runs generation steps. *generator.Generator satisfies it.
type ServerGenerator interface {
	Generate(ctx context.Context, spec generator.ServerSpec) (*generator.Result, error)
}

// GuidanceProvider serves guidance content for ai_guidance steps.
type GuidanceProvider interface {
	Content(topic string) string
}

// Config carries the tunables for a workflow [Engine].
type Config struct {
	// SaveDir: Directory holding <id>.json workflow files
	SaveDir string
	// BackupEnabled: Keep a .bak copy when overwriting a saved workflow
	BackupEnabled bool
	// MaxDuration: Upper bound for a single workflow execution
	MaxDuration time.Duration
	// Logger: Destination for load warnings; nil discards them
	Logger logger.Logger
}

// Engine persists and executes workflows.
//
// Engine is safe for concurrent use by multiple goroutines.
type Engine struct {
	cfg       Config
	generator ServerGenerator
	guidance  GuidanceProvider

	mu        sync.RWMutex
	workflows map[string]*Workflow
}

// NewEngine creates an engine, loads saved workflows from the save directory,
// and seeds an example workflow when the directory holds none.
//
// Files that fail schema or structural validation are skipped with a warning
// rather than failing startup.
func NewEngine(cfg Config, gen ServerGenerator, guidance GuidanceProvider) (*Engine, error) {
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 30 * time.Minute
	}
	e := &Engine{
		cfg:       cfg,
		generator: gen,
		guidance:  guidance,
		workflows: make(map[string]*Workflow),
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	if len(e.workflows) == 0 {
		if err := e.seedExample(); err != nil {
			return nil, fmt.Errorf("failed to seed example workflow: %w", err)
		}
	}
	return e, nil
}

// load reads every .json file in the save directory into memory.
func (e *Engine) load() error {
	if err := os.MkdirAll(e.cfg.SaveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create workflow directory: %w", err)
	}
	entries, err := os.ReadDir(e.cfg.SaveDir)
	if err != nil {
		return fmt.Errorf("failed to read workflow directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(e.cfg.SaveDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			e.warnf("skipping workflow %s: %v", entry.Name(), err)
			continue
		}
		if err := validateWorkflowJSON(data); err != nil {
			e.warnf("skipping workflow %s: %v", entry.Name(), err)
			continue
		}
		var w Workflow
		if err := json.Unmarshal(data, &w); err != nil {
			e.warnf("skipping workflow %s: %v", entry.Name(), err)
			continue
		}
		if err := w.Validate(); err != nil {
			e.warnf("skipping workflow %s: %v", entry.Name(), err)
			continue
		}
		if w.ID == "" {
			w.ID = strings.TrimSuffix(entry.Name(), ".json")
		}
		e.workflows[w.ID] = &w
	}
	return nil
}

// seedExample persists a minimal three-step workflow so new installations
// have something to inspect and run.
func (e *Engine) seedExample() error {
	example := &Workflow{
		Name:        "Basic MCP Server",
		Description: "Collect server details, pick a template, and generate the project",
		Steps: []Step{
			{
				ID:   "collect_info",
				Type: StepInput,
				Config: map[string]any{
					"prompt": "Server name and description",
				},
			},
			{
				ID:   "select_template",
				Type: StepTemplateSelection,
				Config: map[string]any{
					"language":      "python",
					"template_type": "basic",
				},
				Dependencies: []string{"collect_info"},
			},
			{
				ID:           "generate_server",
				Type:         StepGeneration,
				Dependencies: []string{"select_template"},
			},
		},
		Metadata: map[string]any{"example": true},
	}
	_, err := e.Save(example)
	return err
}

// Save persists a workflow, assigning an ID and timestamp when missing.
// When backups are enabled and the workflow already exists on disk, the old
// file is copied to <id>.json.bak first. The write itself is atomic.
//
// Returns:
//   - The saved workflow's ID
//   - An error if validation or persistence fails
func (e *Engine) Save(w *Workflow) (string, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()[:8]
	}
	if w.Version == "" {
		w.Version = "1.0.0"
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	if err := w.Validate(); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	path := filepath.Join(e.cfg.SaveDir, w.ID+".json")
	if e.cfg.BackupEnabled {
		if old, err := os.ReadFile(path); err == nil {
			if err := os.WriteFile(path+".bak", old, 0o644); err != nil {
				return "", fmt.Errorf("failed to back up workflow %s: %w", w.ID, err)
			}
		}
	}

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode workflow: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write workflow file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to persist workflow file: %w", err)
	}

	e.workflows[w.ID] = w
	return w.ID, nil
}

// Get returns a saved workflow by ID.
func (e *Engine) Get(id string) (*Workflow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	w, ok := e.workflows[id]
	if !ok {
		return nil, fmt.Errorf("workflow %s not found", id)
	}
	return w, nil
}

// List returns summaries of all saved workflows, sorted by name then ID.
func (e *Engine) List() []Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Summary, 0, len(e.workflows))
	for _, w := range e.workflows {
		out = append(out, Summary{
			ID:          w.ID,
			Name:        w.Name,
			Description: w.Description,
			StepCount:   len(w.Steps),
			CreatedAt:   w.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Execute runs a saved workflow with dependency gating.
//
// Steps run once all of their dependencies have completed; independent steps
// run in declaration order. Execution is bounded by the configured maximum
// duration. Results are keyed by step ID.
//
// Parameters:
//   - ctx: Parent context; the duration bound is layered on top of it
//   - id: Workflow ID to execute
//   - inputs: Values for input steps, keyed by step ID
//
// Returns:
//   - Per-step results keyed by step ID
//   - An error if the workflow is missing, a step fails, dependencies cannot
//     be resolved, or the time bound is exceeded
func (e *Engine) Execute(ctx context.Context, id string, inputs map[string]any) (map[string]any, error) {
	w, err := e.Get(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.MaxDuration)
	defer cancel()

	results := make(map[string]any, len(w.Steps))
	completed := make(map[string]bool, len(w.Steps))

	for len(completed) < len(w.Steps) {
		progressed := false
		for _, step := range w.Steps {
			if completed[step.ID] || !e.depsMet(step, completed) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return results, fmt.Errorf("workflow %s aborted: %w", id, err)
			}
			result, err := e.runStep(ctx, step, inputs, results)
			if err != nil {
				return results, fmt.Errorf("step %s failed: %w", step.ID, err)
			}
			results[step.ID] = result
			completed[step.ID] = true
			progressed = true
		}
		if !progressed {
			return results, fmt.Errorf("workflow %s has unresolvable step dependencies", id)
		}
	}
	return results, nil
}

// depsMet reports whether every dependency of step has completed.
func (e *Engine) depsMet(step Step, completed map[string]bool) bool {
	for _, dep := range step.Dependencies {
		if !completed[dep] {
			return false
		}
	}
	return true
}

// runStep executes a single step against the accumulated results.
func (e *Engine) runStep(ctx context.Context, step Step, inputs, results map[string]any) (any, error) {
	switch step.Type {
	case StepInput:
		if v, ok := inputs[step.ID]; ok {
			return v, nil
		}
		if v, ok := step.Config["value"]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("no input provided for step %s", step.ID)

	case StepTemplateSelection:
		selection := map[string]any{
			"language":      configString(step.Config, "language", "python"),
			"template_type": configString(step.Config, "template_type", "basic"),
		}
		return selection, nil

	case StepAIGuidance:
		if e.guidance == nil {
			return nil, fmt.Errorf("no guidance provider configured")
		}
		topic := configString(step.Config, "topic", "best_practices")
		return e.guidance.Content(topic), nil

	case StepGeneration:
		if e.generator == nil {
			return nil, fmt.Errorf("no generator configured")
		}
		spec, err := e.generationSpec(step, results)
		if err != nil {
			return nil, err
		}
		return e.generator.Generate(ctx, spec)

	default:
		return nil, fmt.Errorf("unknown step type %q", step.Type)
	}
}

// generationSpec assembles a ServerSpec for a generation step from the step's
// own config, any upstream template selection, and any upstream input values.
func (e *Engine) generationSpec(step Step, results map[string]any) (generator.ServerSpec, error) {
	spec := generator.ServerSpec{
		Name:         configString(step.Config, "name", ""),
		Description:  configString(step.Config, "description", ""),
		Language:     configString(step.Config, "language", ""),
		TemplateType: configString(step.Config, "template_type", ""),
		OutputDir:    configString(step.Config, "output_dir", ""),
	}

	for _, dep := range step.Dependencies {
		switch result := results[dep].(type) {
		case map[string]any:
			if spec.Language == "" {
				spec.Language = configString(result, "language", "")
			}
			if spec.TemplateType == "" {
				spec.TemplateType = configString(result, "template_type", "")
			}
			if spec.Name == "" {
				spec.Name = configString(result, "name", "")
			}
			if spec.Description == "" {
				spec.Description = configString(result, "description", "")
			}
		case string:
			if spec.Name == "" {
				spec.Name = result
			}
		}
	}

	if spec.Name == "" {
		return spec, fmt.Errorf("generation step %s has no server name", step.ID)
	}
	if spec.Description == "" {
		spec.Description = "Generated by workflow"
	}
	return spec, nil
}

// configString reads a string value from a step config map with a fallback.
func configString(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// warnf logs a load warning when a logger is configured.
func (e *Engine) warnf(format string, v ...any) {
	if e.cfg.Logger != nil {
		e.cfg.Logger.Printf(format, v...)
	}
}
