// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads runtime settings for the MCP creator from the
// environment, with optional .env file support and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Settings holds all runtime configuration for the MCP creator.
//
// Every field maps to a single environment variable. Values are read with
// [Load], which applies defaults first, then an optional .env file, then the
// process environment.
type Settings struct {
	// DefaultOutputDir is where generated servers are written (DEFAULT_OUTPUT_DIR).
	DefaultOutputDir string `validate:"required"`
	// TemplateCacheDir is the root of the template catalog (TEMPLATE_CACHE_DIR).
	TemplateCacheDir string `validate:"required"`
	// WorkflowSaveDir is where saved workflows are persisted (WORKFLOW_SAVE_DIR).
	WorkflowSaveDir string `validate:"required"`

	// LogLevel controls logging verbosity (LOG_LEVEL).
	LogLevel string `validate:"oneof=DEBUG INFO WARNING ERROR"`

	// WebPort is the listen port for the web interface (GRADIO_SERVER_PORT).
	WebPort int `validate:"gt=0,lte=65535"`
	// WebShare binds the web interface to all interfaces instead of
	// localhost only (GRADIO_SHARE).
	WebShare bool
	// WebAuthEnabled enables basic auth on the web interface (GRADIO_AUTH_ENABLED).
	WebAuthEnabled bool
	// WebAuth holds "user:password" credentials for basic auth (GRADIO_AUTH).
	WebAuth string

	// MaxConcurrentGenerations caps parallel server generations
	// (MAX_CONCURRENT_GENERATIONS).
	MaxConcurrentGenerations int `validate:"gt=0"`
	// TemplateUpdateCheck enables the template directory watcher
	// (TEMPLATE_UPDATE_CHECK).
	TemplateUpdateCheck bool
	// WorkflowBackupEnabled keeps a .bak copy when overwriting a saved
	// workflow (WORKFLOW_BACKUP_ENABLED).
	WorkflowBackupEnabled bool
	// EnableSandbox confines generated output under DefaultOutputDir
	// (ENABLE_SANDBOX).
	EnableSandbox bool
	// MaxTemplateSizeMB rejects template files above this size (MAX_TEMPLATE_SIZE_MB).
	MaxTemplateSizeMB int `validate:"gt=0"`
	// MaxWorkflowDurationMinutes bounds a single workflow execution
	// (MAX_WORKFLOW_DURATION_MINUTES).
	MaxWorkflowDurationMinutes int `validate:"gt=0"`

	// DebugMode enables debug behavior (DEBUG_MODE).
	DebugMode bool
	// VerboseLogging enables verbose log output (VERBOSE_LOGGING).
	VerboseLogging bool
}

// Defaults returns a Settings populated with the documented default values.
func Defaults() Settings {
	return Settings{
		DefaultOutputDir:           "./mcp_servers",
		TemplateCacheDir:           "./templates",
		WorkflowSaveDir:            "./mcp_creator_workflows",
		LogLevel:                   "INFO",
		WebPort:                    7860,
		WebShare:                   false,
		WebAuthEnabled:             false,
		MaxConcurrentGenerations:   3,
		TemplateUpdateCheck:        true,
		WorkflowBackupEnabled:      true,
		EnableSandbox:              true,
		MaxTemplateSizeMB:          10,
		MaxWorkflowDurationMinutes: 30,
		DebugMode:                  false,
		VerboseLogging:             false,
	}
}

// Load reads settings from the environment, applying defaults for unset
// variables and validating the result.
//
// A .env file in the working directory is loaded first when present; existing
// process environment variables are never overridden by it. The three
// directory settings are created if missing so later operations can rely on
// them.
//
// Returns:
//   - A pointer to the loaded Settings
//   - An error if a variable fails to parse, validation fails, or a
//     directory cannot be created
func Load() (*Settings, error) {
	// Ignore a missing .env; only explicit parse failures matter.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	s := Defaults()

	s.DefaultOutputDir = envString("DEFAULT_OUTPUT_DIR", s.DefaultOutputDir)
	s.TemplateCacheDir = envString("TEMPLATE_CACHE_DIR", s.TemplateCacheDir)
	s.WorkflowSaveDir = envString("WORKFLOW_SAVE_DIR", s.WorkflowSaveDir)
	s.LogLevel = strings.ToUpper(envString("LOG_LEVEL", s.LogLevel))
	s.WebAuth = envString("GRADIO_AUTH", s.WebAuth)

	var err error
	if s.WebPort, err = envInt("GRADIO_SERVER_PORT", s.WebPort); err != nil {
		return nil, err
	}
	if s.MaxConcurrentGenerations, err = envInt("MAX_CONCURRENT_GENERATIONS", s.MaxConcurrentGenerations); err != nil {
		return nil, err
	}
	if s.MaxTemplateSizeMB, err = envInt("MAX_TEMPLATE_SIZE_MB", s.MaxTemplateSizeMB); err != nil {
		return nil, err
	}
	if s.MaxWorkflowDurationMinutes, err = envInt("MAX_WORKFLOW_DURATION_MINUTES", s.MaxWorkflowDurationMinutes); err != nil {
		return nil, err
	}

	if s.WebShare, err = envBool("GRADIO_SHARE", s.WebShare); err != nil {
		return nil, err
	}
	if s.WebAuthEnabled, err = envBool("GRADIO_AUTH_ENABLED", s.WebAuthEnabled); err != nil {
		return nil, err
	}
	if s.TemplateUpdateCheck, err = envBool("TEMPLATE_UPDATE_CHECK", s.TemplateUpdateCheck); err != nil {
		return nil, err
	}
	if s.WorkflowBackupEnabled, err = envBool("WORKFLOW_BACKUP_ENABLED", s.WorkflowBackupEnabled); err != nil {
		return nil, err
	}
	if s.EnableSandbox, err = envBool("ENABLE_SANDBOX", s.EnableSandbox); err != nil {
		return nil, err
	}
	if s.DebugMode, err = envBool("DEBUG_MODE", s.DebugMode); err != nil {
		return nil, err
	}
	if s.VerboseLogging, err = envBool("VERBOSE_LOGGING", s.VerboseLogging); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	for _, dir := range []string{s.DefaultOutputDir, s.TemplateCacheDir, s.WorkflowSaveDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &s, nil
}

// MaxTemplateSizeBytes returns the template size limit in bytes.
func (s *Settings) MaxTemplateSizeBytes() int64 {
	return int64(s.MaxTemplateSizeMB) * 1024 * 1024
}

// MaxWorkflowDuration returns the workflow execution bound as a duration.
func (s *Settings) MaxWorkflowDuration() time.Duration {
	return time.Duration(s.MaxWorkflowDurationMinutes) * time.Minute
}

// WebCredentials splits WebAuth into user and password parts.
// The second return value reports whether credentials are present and
// well-formed.
func (s *Settings) WebCredentials() (user, password string, ok bool) {
	user, password, ok = strings.Cut(s.WebAuth, ":")
	if !ok || user == "" || password == "" {
		return "", "", false
	}
	return user, password, true
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return b, nil
}
