// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/forgeworks/mcp-creator/src/internal/scaffold/guidance"
	"github.com/forgeworks/mcp-creator/src/version"
	"github.com/mark3labs/mcp-go/mcp"
)

// handleConfigResource handles requests for the configuration template resource.
// It provides a JSON template showing the expected configuration structure for the MCP server.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for the config template
//
// Returns:
//   - A slice containing the configuration template as JSON content
//   - An error if JSON marshaling fails
//
// The resource provides default values for language, templateType, timeoutSeconds, and the AI block.
func (e *Engines) handleConfigResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exampleConfig := map[string]any{
		"defaults": map[string]any{
			"language":       "python",
			"templateType":   "basic",
			"timeoutSeconds": 30,
		},
		"ai": map[string]any{
			"apiKey":      "",
			"endpoint":    "https://api.x.ai",
			"model":       "grok-4-1-fast-non-reasoning",
			"timeout":     30,
			"maxTokens":   4096,
			"temperature": 0.3,
		},
	}

	jsonData, err := json.MarshalIndent(exampleConfig, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "config://template",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleVersionResource handles requests for version information resource.
// It provides server metadata including version, capabilities, and supported features.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for version information
//
// Returns:
//   - A slice containing version and capability information as JSON content
//   - An error if JSON marshaling fails
//
// The resource includes server name, version, supported tools, resources, and prompts
// with full metadata, plus the supported template languages. All capabilities are
// loaded dynamically from the metadata cache populated during server construction.
func (e *Engines) handleVersionResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	// Load configurations dynamically
	prompts, err := loadPromptsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	tools, err := loadToolsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load tools config: %w", err)
	}

	resources, err := loadResourcesConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load resources config: %w", err)
	}

	versionInfo := map[string]any{
		"name":    "MCP Creator",
		"version": version.Version,
		"type":    "MCP Server",
		"capabilities": map[string]any{
			"tools":     tools,     // Loaded from cache with meta
			"resources": resources, // Loaded from cache with meta
			"prompts":   prompts,   // Loaded from cache with meta
		},
		"supportedLanguages": e.Templates.Languages(),
	}

	jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "info://version",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleStatusResource handles requests for server status information resource.
// It provides current server health, version, and operational status.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for server status
//
// Returns:
//   - A slice containing server status information as JSON content
//   - An error if JSON marshaling fails
//
// The status includes server health, timestamp, version, and available capabilities
// (tools, resources, prompts with full metadata, supported languages, and the
// current template and workflow counts).
func (e *Engines) handleStatusResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	// Load configurations dynamically
	prompts, err := loadPromptsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts config: %w", err)
	}

	tools, err := loadToolsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load tools config: %w", err)
	}

	resources, err := loadResourcesConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load resources config: %w", err)
	}

	statusInfo := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server":    "MCP Creator",
		"version":   version.Version,
		"capabilities": map[string]any{
			"tools":     tools,     // Loaded from cache with meta
			"resources": resources, // Loaded from cache with meta
			"prompts":   prompts,   // Loaded from cache with meta
		},
		"supportedLanguages": e.Templates.Languages(),
		"templateCount":      len(e.Templates.List("")),
		"workflowCount":      len(e.Workflows.List()),
	}

	jsonData, err := json.MarshalIndent(statusInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "status://server",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleCatalogResource handles requests for the template catalog resource.
// It provides the full template catalog as structured JSON.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for the template catalog
//
// Returns:
//   - A slice containing the catalog as JSON content
//   - An error if JSON marshaling fails
func (e *Engines) handleCatalogResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list := e.Templates.List("")
	catalog := make([]map[string]any, 0, len(list))
	for _, tpl := range list {
		catalog = append(catalog, map[string]any{
			"key":         tpl.Key(),
			"name":        tpl.Metadata.Name,
			"language":    tpl.Metadata.Language,
			"description": tpl.Metadata.Description,
			"features":    tpl.Metadata.Features,
			"variables":   tpl.Metadata.Variables,
		})
	}

	jsonData, err := json.MarshalIndent(map[string]any{
		"templates": catalog,
		"languages": e.Templates.Languages(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "templates://catalog",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleWorkflowsResource handles requests for the saved workflows resource.
// It provides the saved workflow summaries as structured JSON.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for saved workflows
//
// Returns:
//   - A slice containing the workflow list as JSON content
//   - An error if JSON marshaling fails
func (e *Engines) handleWorkflowsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summaries := e.Workflows.List()

	jsonData, err := json.MarshalIndent(map[string]any{
		"workflows": summaries,
		"count":     len(summaries),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workflow list: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "workflows://saved",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleGuidanceResource handles requests for guidance documents.
// The topic is taken from the request URI so a single handler serves
// every guidance resource.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request with a guidance://<topic> URI
//
// Returns:
//   - A slice containing the guidance markdown
//   - An error if the URI does not carry a topic
func (e *Engines) handleGuidanceResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	topic, found := strings.CutPrefix(request.Params.URI, "guidance://")
	if !found || topic == "" {
		return nil, fmt.Errorf("invalid guidance URI: %s", request.Params.URI)
	}
	topic = guidance.NormalizeTopic(topic)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     e.Guidance.Content(topic),
		},
	}, nil
}
