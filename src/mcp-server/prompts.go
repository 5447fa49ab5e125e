// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createPrompts creates and returns all MCP prompt definitions with their handlers
func createPrompts() []server.ServerPrompt {
	return []server.ServerPrompt{
		{
			Prompt: mcp.NewPrompt("server-design",
				mcp.WithPromptDescription("Guided design conversation for planning a new MCP server"),
				mcp.WithArgument("server_name",
					mcp.ArgumentDescription("Name of the server being designed"),
				),
				mcp.WithArgument("description",
					mcp.ArgumentDescription("What the server should do"),
				),
			),
			Handler: handleServerDesignPrompt,
		},
		{
			Prompt: mcp.NewPrompt("workflow-builder",
				mcp.WithPromptDescription("Guided assembly of a reusable scaffolding workflow"),
				mcp.WithArgument("goal",
					mcp.ArgumentDescription("What the workflow should accomplish"),
				),
			),
			Handler: handleWorkflowBuilderPrompt,
		},
		{
			Prompt: mcp.NewPrompt("troubleshooting",
				mcp.WithPromptDescription("Troubleshoot common scaffolding and server issues"),
				mcp.WithArgument("issue_type",
					mcp.ArgumentDescription("Type of issue: 'generation', 'template', 'workflow', 'sampling'"),
				),
			),
			Handler: handleTroubleshootingPrompt,
		},
	}
}
