// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createResources creates all static and dynamic resources exposed by the server.
//
// Parameters:
//   - e: The engine bundle whose methods implement the resource handlers
//
// Returns:
//   - A slice of server resources ready for registration
//
// The function defines the following resources:
//   - guidance://<topic>: Guidance markdown, one resource per known topic
//   - templates://catalog: JSON catalog of available templates
//   - workflows://saved: JSON list of saved workflows
//   - config://template: Example configuration file
//   - info://version: Server name, version, and capabilities
//   - status://server: Health, timestamp, and capabilities
func createResources(e *Engines) []server.ServerResource {
	resources := []server.ServerResource{
		{
			Resource: mcp.NewResource(
				"templates://catalog",
				"Template Catalog",
				mcp.WithResourceDescription("JSON catalog of available server templates with languages and features"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: e.handleCatalogResource,
		},
		{
			Resource: mcp.NewResource(
				"workflows://saved",
				"Saved Workflows",
				mcp.WithResourceDescription("JSON list of saved workflows with identifiers and step counts"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: e.handleWorkflowsResource,
		},
		{
			Resource: mcp.NewResource(
				"config://template",
				"Configuration Template",
				mcp.WithResourceDescription("Example configuration file showing all supported settings"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: e.handleConfigResource,
		},
		{
			Resource: mcp.NewResource(
				"info://version",
				"Server Version",
				mcp.WithResourceDescription("Server name, version, and capability metadata"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: e.handleVersionResource,
		},
		{
			Resource: mcp.NewResource(
				"status://server",
				"Server Status",
				mcp.WithResourceDescription("Current server health and operational status"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: e.handleStatusResource,
		},
	}

	// One guidance resource per known topic
	for _, topic := range e.Guidance.Topics() {
		resources = append(resources, server.ServerResource{
			Resource: mcp.NewResource(
				"guidance://"+topic,
				fmt.Sprintf("Guidance: %s", topic),
				mcp.WithResourceDescription(fmt.Sprintf("Development guidance on %s", topic)),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: e.handleGuidanceResource,
		})
	}

	return resources
}

// addResources adds static resources to the MCP server.
//
// This function creates all MCP resources using createResources()
// and registers them with the provided MCP server instance.
// Resources include the template catalog, saved workflows, guidance
// documents, configuration templates, and server status.
//
// Parameters:
//   - s: The MCP server instance to add resources to
//   - e: The engine bundle backing the resource handlers
//
// This function should be called during server initialization
// to make static resources available to MCP clients.
func addResources(s *server.MCPServer, e *Engines) {
	resources := createResources(e)
	for _, r := range resources {
		s.AddResource(r.Resource, r.Handler)
	}
}
