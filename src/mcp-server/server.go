// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgeworks/mcp-creator/src/logger"
	"github.com/forgeworks/mcp-creator/src/mcp-server/templates"
	"github.com/forgeworks/mcp-creator/src/version"
	"github.com/mark3labs/mcp-go/server"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// GetVersion provides access to the server's version string, which is set
// during server initialization via the Run function. This allows other
// components to access the version information for logging, user-agent
// strings, or API responses.
//
// Returns:
//   - string: The current server version (e.g., "0.3.0")
//
// The version is initially set to the default from the version package,
// but can be overridden when calling Run() with a specific version string.
func GetVersion() string {
	return appVersion
}

// DefaultServerDependencies assembles the standard dependency set for the MCP server.
//
// It loads the AI configuration, builds the engine bundle, creates every tool,
// resource, and prompt, and renders the server instructions. The result feeds
// NewCLIFramework or a ServerBuilder directly.
//
// Parameters:
//   - version: Version string reported by the server and used in User-Agent headers
//
// Returns:
//   - ServerDependencies: Fully populated dependency set
//   - error: Configuration, engine initialization, or instruction rendering errors
func DefaultServerDependencies(version string) (ServerDependencies, error) {
	config, err := loadConfig(os.Getenv("MCP_CREATOR_CONFIG_FILE"))
	if err != nil {
		return ServerDependencies{}, fmt.Errorf("failed to load config: %w", err)
	}

	engines, err := NewEngines(nil, nil)
	if err != nil {
		return ServerDependencies{}, fmt.Errorf("failed to initialize engines: %w", err)
	}

	tools, toolsWithConfig := createTools(engines)

	instructions, err := loadInstructions(tools, toolsWithConfig)
	if err != nil {
		return ServerDependencies{}, fmt.Errorf("failed to load instructions: %w", err)
	}

	return ServerDependencies{
		Config:          config,
		Embed:           templates.MagicEmbed,
		Version:         version,
		Engines:         engines,
		Tools:           tools,
		ToolsWithConfig: toolsWithConfig,
		Resources:       createResources(engines),
		Prompts:         createPrompts(),
		SamplingHandler: NewDefaultSamplingHandler(config, version),
		Instructions:    instructions,
		PopulateCache:   true,
	}, nil
}

// Run starts the MCP server with scaffolding tools for building new MCP servers.
//
// Run initializes and starts the MCP server with the full scaffolding surface:
// template-driven server generation, template catalog browsing, saved workflow
// management and execution, AI-assisted guidance, and resource monitoring.
// The server supports graceful shutdown and watches the template catalog for
// changes when enabled.
//
// Parameters:
//   - version: Version string to set for the server (e.g., "0.3.0")
//
// Returns:
//   - error: Server startup or runtime error, or graceful shutdown signal
//
// Configuration:
//   - Runtime settings are read from MCP_CREATOR_* environment variables
//   - AI settings load from the file named by MCP_CREATOR_CONFIG_FILE
//   - CREATOR_AI_APIKEY overrides an empty AI API key
//
// Server Lifecycle:
//  1. Load runtime settings and AI configuration
//  2. Build the engine bundle (templates, generator, workflows, guidance)
//  3. Set up signal handling for graceful shutdown
//  4. Build MCP server using ServerBuilder pattern
//  5. Start stdio server with context cancellation support
//  6. Wait for either server error or shutdown signal
//
// Graceful Shutdown:
//   - Responds to SIGINT (Ctrl+C) and SIGTERM signals
//   - Cancels context to stop the template watcher
//   - Waits for server to stop cleanly
//   - Returns context.Canceled error on signal-based shutdown
//
// Error Handling:
//   - Configuration errors: Wrapped with "failed to load config" prefix
//   - Server build errors: Wrapped with "failed to build server" prefix
//   - Shutdown errors: Wrapped with "server shutdown" prefix
func Run(version string) error {
	// Set the version for GetVersion
	appVersion = version

	// Load configuration
	config, err := loadConfig(os.Getenv("MCP_CREATOR_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Stdout carries the MCP protocol, so operational logging goes to stderr
	log := logger.NewMCPLogger(os.Stderr, false)

	engines, err := NewEngines(nil, log)
	if err != nil {
		return fmt.Errorf("failed to initialize engines: %w", err)
	}

	// Create tools (called once and reused)
	tools, toolsWithConfig := createTools(engines)

	// Load server instructions with tool information
	//
	// This approach is better as it uses dynamic content generation based on tools,
	// instead of hardcoded values
	instructions, err := loadInstructions(tools, toolsWithConfig)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch the template catalog for on-disk changes when enabled
	if engines.Settings.TemplateUpdateCheck {
		go func() {
			if err := engines.Templates.Watch(ctx); err != nil {
				log.Printf("template watcher stopped: %v", err)
			}
		}()
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create MCP server using ServerBuilder for better testability
	s, err := NewServerBuilder().
		WithConfig(config).
		WithEmbed(templates.MagicEmbed).
		WithVersion(version).
		WithEngines(engines).
		WithSampling(NewDefaultSamplingHandler(config, version)).
		WithTools(tools...).
		WithToolsWithConfig(toolsWithConfig...).
		WithResources(createResources(engines)...).
		WithPrompts(createPrompts()...).
		WithInstructions(instructions).
		WithPopulate().
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	// Create stdio server to connect with our context
	stdioServer := server.NewStdioServer(s)

	// Start server with graceful shutdown support
	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		// Graceful shutdown triggered by signal
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
