// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/forgeworks/mcp-creator/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// promptTemplateData holds the data used to populate prompt templates.
type promptTemplateData struct {
	ServerName  string
	Description string
	Goal        string
	IssueType   string
}

// parsePromptTemplate parses a prompt template file and converts it to MCP messages.
//
// This function reads a template file from the embedded filesystem, executes
// it with the provided data, and converts the structured content into MCP prompt messages.
// The template-based approach enables dynamic content generation instead of hardcoded values,
// making prompts more maintainable and flexible.
//
// Parameters:
//   - templateName: Name of the template file (without .md extension)
//   - data: Template data to populate placeholders
//
// Returns:
//   - []mcp.PromptMessage: Parsed MCP messages
//   - error: Any error during template execution or parsing
func parsePromptTemplate(templateName string, data promptTemplateData) ([]mcp.PromptMessage, error) {
	// Read the template file
	templateContent, err := templates.MagicEmbed.ReadFile(templateName + ".md")
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	// Parse the template
	tmpl, err := template.New(templateName).Parse(string(templateContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	// Execute the template
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	content := buf.String()

	// Parse the executed content into MCP messages
	var messages []mcp.PromptMessage
	lines := strings.Split(content, "\n")
	var currentRole mcp.Role
	var currentContent strings.Builder

	for _, line := range lines {
		line = strings.TrimSpace(line)

		// Check for role markers first (before skipping headers)
		if strings.HasPrefix(line, "### Assistant:") || strings.HasPrefix(line, "##### Assistant:") {
			// Save previous message if any
			if currentContent.Len() > 0 {
				messages = append(messages, mcp.NewPromptMessage(
					currentRole,
					mcp.NewTextContent(strings.TrimSpace(currentContent.String())),
				))
				currentContent.Reset()
			}
			currentRole = mcp.RoleAssistant
			continue
		}

		if strings.HasPrefix(line, "### User:") || strings.HasPrefix(line, "##### User:") {
			// Save previous message if any
			if currentContent.Len() > 0 {
				messages = append(messages, mcp.NewPromptMessage(
					currentRole,
					mcp.NewTextContent(strings.TrimSpace(currentContent.String())),
				))
				currentContent.Reset()
			}
			currentRole = mcp.RoleUser
			continue
		}

		// Skip empty lines and headers
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Add line to current content if we have a role
		if currentRole != "" {
			if currentContent.Len() > 0 {
				currentContent.WriteString("\n")
			}
			currentContent.WriteString(line)
		}
	}

	// Add final message if any
	if currentContent.Len() > 0 {
		messages = append(messages, mcp.NewPromptMessage(
			currentRole,
			mcp.NewTextContent(strings.TrimSpace(currentContent.String())),
		))
	}

	return messages, nil
}

// handleServerDesignPrompt handles the server design conversation prompt.
//
// This function implements the server-design prompt, which walks users through
// planning a new MCP server before generating it. It covers capability selection,
// template and language choice, and the generation step itself.
//
// Parameters:
//   - ctx: Context for the request, used for cancellation and timeouts
//   - request: The MCP get prompt request containing arguments
//
// Returns:
//   - *mcp.GetPromptResult: The prompt result with design conversation messages
//   - error: Any error that occurred during prompt handling
//
// The conversation includes:
//  1. Clarifying the server's purpose and capabilities
//  2. Choosing a language and template using list_templates and preview_template
//  3. Generating the project using create_mcp_server
//  4. Reviewing next steps and client configuration
//
// Expected arguments in request.Params.Arguments:
//   - server_name: Name of the server being designed
//   - description: What the server should do
func handleServerDesignPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	serverName := request.Params.Arguments["server_name"]
	description := request.Params.Arguments["description"]

	messages, err := parsePromptTemplate("server-design-prompt", promptTemplateData{
		ServerName:  serverName,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse server design template: %w", err)
	}

	return mcp.NewGetPromptResult(
		"MCP Server Design Conversation",
		messages,
	), nil
}

// handleWorkflowBuilderPrompt handles the workflow assembly prompt.
//
// This function implements the workflow-builder prompt, which guides users
// through composing a reusable scaffolding workflow step by step and saving
// it for later execution.
//
// Parameters:
//   - ctx: Context for the request, used for cancellation and timeouts
//   - request: The MCP get prompt request containing arguments
//
// Returns:
//   - *mcp.GetPromptResult: The prompt result with workflow assembly guidance
//   - error: Any error that occurred during prompt handling
//
// The guidance covers:
//   - Breaking the goal into input, template_selection, ai_guidance, and generation steps
//   - Expressing step dependencies so execution order is correct
//   - Saving the workflow with save_workflow and running it with run_workflow
//
// Expected arguments in request.Params.Arguments:
//   - goal: What the workflow should accomplish
func handleWorkflowBuilderPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	goal := request.Params.Arguments["goal"]

	messages, err := parsePromptTemplate("workflow-builder-prompt", promptTemplateData{
		Goal: goal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse workflow builder template: %w", err)
	}

	return mcp.NewGetPromptResult(
		"Scaffolding Workflow Builder",
		messages,
	), nil
}

// handleTroubleshootingPrompt handles the troubleshooting prompt.
//
// This function implements the troubleshooting prompt, which provides
// targeted guidance for common scaffolding issues based on the specified
// issue type. It offers context-specific troubleshooting steps and common
// solutions for different problem categories.
//
// Parameters:
//   - ctx: Context for the request, used for cancellation and timeouts
//   - request: The MCP get prompt request containing arguments
//
// Returns:
//   - *mcp.GetPromptResult: The prompt result with troubleshooting guidance
//   - error: Any error that occurred during prompt handling
//
// Supported issue types:
//   - generation: Failed or partial server generation, output directory problems
//   - template: Missing templates, rendering failures, oversized template files
//   - workflow: Invalid step definitions, dependency cycles, execution timeouts
//   - sampling: AI endpoint errors, missing API keys, streaming failures
//
// Expected arguments in request.Params.Arguments:
//   - issue_type: Type of issue ('generation', 'template', 'workflow', 'sampling')
func handleTroubleshootingPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	issueType := request.Params.Arguments["issue_type"]

	messages, err := parsePromptTemplate("troubleshooting-prompt", promptTemplateData{
		IssueType: issueType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse troubleshooting template: %w", err)
	}

	return mcp.NewGetPromptResult(
		"Scaffolding Troubleshooting Guide",
		messages,
	), nil
}
