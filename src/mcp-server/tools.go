// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createTools creates and returns all MCP tool definitions with their handlers.
// It organizes tools into two categories: those that don't require configuration
// and those that need access to the server configuration (e.g., for AI integration or timeouts).
//
// Parameters:
//   - e: The engine bundle whose methods implement the tool handlers
//
// Returns:
//   - A slice of ToolDefinition for tools without config dependencies
//   - A slice of ToolDefinitionWithConfig for tools that require server configuration
//
// The function defines the following tools:
//   - create_mcp_server: Generates a complete MCP server project from a template
//   - list_templates: Lists available templates with their supported features
//   - preview_template: Shows a template's main source file before generation
//   - save_workflow: Persists a reusable multi-step workflow
//   - list_workflows: Lists saved workflows with identifiers and step counts
//   - run_workflow: Executes a saved workflow with optional input overrides
//   - get_resource_usage: Provides server resource usage statistics
//   - get_ai_guidance: Serves development guidance, AI-assisted when configured
//
// Each tool includes proper parameter definitions, descriptions, and default values
// as required by the MCP specification.
func createTools(e *Engines) ([]ToolDefinition, []ToolDefinitionWithConfig) {
	// Tools that don't need config
	tools := []ToolDefinition{
		{
			Tool: mcp.NewTool("create_mcp_server",
				mcp.WithDescription("Generate a complete MCP server project from a template, including source, manifest, README, and a ready-to-paste client configuration snippet"),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Server name; becomes the project directory name after sanitization"),
				),
				mcp.WithString("description",
					mcp.Required(),
					mcp.Description("Short description of what the server does"),
				),
				mcp.WithString("language",
					mcp.DefaultString("python"),
					mcp.Description("Implementation language (python, typescript, go)"),
				),
				mcp.WithString("template_type",
					mcp.DefaultString("basic"),
					mcp.Description("Template to scaffold from (basic, advanced)"),
				),
				mcp.WithString("features",
					mcp.Description("Comma-separated extra features to enable, e.g. sampling,logging"),
				),
				mcp.WithString("output_dir",
					mcp.Description("Directory to generate into; defaults to the configured output directory"),
				),
			),
			Handler: e.handleCreateMCPServer,
			Role:    "serverGenerator",
		},
		{
			Tool: mcp.NewTool("list_templates",
				mcp.WithDescription("List available server templates, optionally filtered by language, with the features each template supports"),
				mcp.WithString("language",
					mcp.Description("Filter templates by language (python, typescript, go)"),
				),
			),
			Handler: e.handleListTemplates,
			Role:    "templateLister",
		},
		{
			Tool: mcp.NewTool("preview_template",
				mcp.WithDescription("Show a template's metadata, variables, and main source file before generating from it"),
				mcp.WithString("language",
					mcp.Required(),
					mcp.Description("Template language (python, typescript, go)"),
				),
				mcp.WithString("template_type",
					mcp.Required(),
					mcp.Description("Template to preview (basic, advanced)"),
				),
			),
			Handler: e.handlePreviewTemplate,
			Role:    "templatePreviewer",
		},
		{
			Tool: mcp.NewTool("save_workflow",
				mcp.WithDescription("Save a reusable multi-step workflow combining input, template selection, guidance, and generation steps"),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Workflow name"),
				),
				mcp.WithString("description",
					mcp.Required(),
					mcp.Description("What the workflow accomplishes"),
				),
				mcp.WithString("steps",
					mcp.Required(),
					mcp.Description("JSON array of step objects, each with an id, a type (input, template_selection, ai_guidance, generation), and a config object"),
				),
			),
			Handler: e.handleSaveWorkflow,
			Role:    "workflowSaver",
		},
		{
			Tool: mcp.NewTool("list_workflows",
				mcp.WithDescription("List saved workflows with their identifiers, step counts, and descriptions"),
			),
			Handler: e.handleListWorkflows,
			Role:    "workflowLister",
		},
		{
			Tool: mcp.NewTool("run_workflow",
				mcp.WithDescription("Execute a saved workflow by identifier, passing optional inputs that override step parameters"),
				mcp.WithString("workflow_id",
					mcp.Required(),
					mcp.Description("Identifier returned by save_workflow or list_workflows"),
				),
				mcp.WithString("inputs",
					mcp.Description("JSON object of input values merged over step parameters"),
				),
			),
			Handler: e.handleRunWorkflow,
			Role:    "workflowRunner",
		},
		{
			Tool: mcp.NewTool("get_resource_usage",
				mcp.WithDescription("Get current resource usage statistics of the running MCP server (memory, GC, system info)"),
				mcp.WithBoolean("detailed",
					mcp.DefaultBool(false),
					mcp.Description("Include detailed memory breakdown"),
				),
				mcp.WithString("format",
					mcp.DefaultString("json"),
					mcp.Description("Output format (json, markdown)"),
				),
			),
			Handler: e.handleGetResourceUsage,
			Role:    "resourceMonitor",
		},
	}

	// Tools that need config
	toolsWithConfig := []ToolDefinitionWithConfig{
		{
			Tool: mcp.NewTool("get_ai_guidance",
				mcp.WithDescription("Get guidance on MCP server development topics. Uses the configured AI endpoint when an API key is set, otherwise returns curated static guidance"),
				mcp.WithString("topic",
					mcp.Required(),
					mcp.Description("Guidance topic (sampling, resources, tools, prompts, best_practices)"),
				),
				mcp.WithString("server_type",
					mcp.Description("Optional server type to tailor the guidance toward, e.g. tool_server"),
				),
			),
			Handler: e.handleGetAIGuidance,
			Role:    "aiGuide",
		},
	}

	return tools, toolsWithConfig
}
