// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"path/filepath"
	"time"

	creatorcfg "github.com/forgeworks/mcp-creator/src/config"
	"github.com/forgeworks/mcp-creator/src/internal/scaffold/generator"
	"github.com/forgeworks/mcp-creator/src/internal/scaffold/guidance"
	scaffoldtpl "github.com/forgeworks/mcp-creator/src/internal/scaffold/template"
	"github.com/forgeworks/mcp-creator/src/internal/scaffold/workflow"
	"github.com/forgeworks/mcp-creator/src/logger"
)

// guidanceOverrideDir is the subdirectory of the template cache that holds
// user-provided guidance overrides.
const guidanceOverrideDir = "guidance"

// guidanceCacheTTL bounds how long guidance and template content stays cached
// before it is re-read from disk.
const guidanceCacheTTL = 5 * time.Minute

// Engines bundles the scaffolding subsystems shared by every tool, resource,
// and prompt handler. A single bundle is built at startup and passed through
// the server builder so all handlers observe the same template catalog,
// workflow store, and guidance cache.
//
// Fields:
//   - Settings: Environment-derived runtime settings
//   - Templates: Template catalog manager (list, preview, render, watch)
//   - Generator: Server project generator built on the template manager
//   - Workflows: Workflow persistence and execution engine
//   - Guidance: Guidance content manager with override and cache layers
//   - Log: Destination for operational messages
type Engines struct {
	Settings  *creatorcfg.Settings
	Templates *scaffoldtpl.Manager
	Generator *generator.Generator
	Workflows *workflow.Engine
	Guidance  *guidance.Manager
	Log       logger.Logger
}

// NewEngines constructs the engine bundle from runtime settings.
//
// Parameters:
//   - settings: Runtime settings; nil loads them from the environment
//   - log: Logger for catalog and workflow warnings; nil uses a CLI logger
//
// Returns:
//   - The fully wired engine bundle
//   - An error if settings cannot be loaded or a subsystem directory is unusable
//
// The template catalog root and the workflow save directory are created on
// demand by their managers, so a fresh environment works without setup.
func NewEngines(settings *creatorcfg.Settings, log logger.Logger) (*Engines, error) {
	if settings == nil {
		loaded, err := creatorcfg.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = loaded
	}
	if log == nil {
		log = logger.NewCLILogger()
	}

	templates, err := scaffoldtpl.NewManager(scaffoldtpl.ManagerConfig{
		Root:        settings.TemplateCacheDir,
		MaxFileSize: settings.MaxTemplateSizeBytes(),
		CacheTTL:    guidanceCacheTTL,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize template manager: %w", err)
	}

	gen := generator.New(generator.Config{
		DefaultOutputDir: settings.DefaultOutputDir,
		MaxConcurrent:    settings.MaxConcurrentGenerations,
		Sandbox:          settings.EnableSandbox,
	}, templates)

	guide := guidance.NewManager(filepath.Join(settings.TemplateCacheDir, guidanceOverrideDir), guidanceCacheTTL)

	workflows, err := workflow.NewEngine(workflow.Config{
		SaveDir:       settings.WorkflowSaveDir,
		BackupEnabled: settings.WorkflowBackupEnabled,
		MaxDuration:   settings.MaxWorkflowDuration(),
		Logger:        log,
	}, gen, guide)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workflow engine: %w", err)
	}

	return &Engines{
		Settings:  settings,
		Templates: templates,
		Generator: gen,
		Workflows: workflows,
		Guidance:  guide,
		Log:       log,
	}, nil
}
