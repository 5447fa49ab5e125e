// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/forgeworks/mcp-creator/src/internal/scaffold/generator"
	"github.com/forgeworks/mcp-creator/src/internal/scaffold/guidance"
	scaffoldtpl "github.com/forgeworks/mcp-creator/src/internal/scaffold/template"
	"github.com/forgeworks/mcp-creator/src/internal/scaffold/workflow"
	"github.com/forgeworks/mcp-creator/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// handleCreateMCPServer handles requests to generate a new MCP server project from a template.
// It validates the requested spec, renders the template, writes the project to disk, and
// reports the generated files together with a client configuration snippet.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing name, description, and optional generation parameters
//
// Returns:
//   - The tool execution result with a human-readable report and structured generation data
//   - An error only on internal failures; invalid input is reported as a tool error
func (e *Engines) handleCreateMCPServer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("name parameter required: %v", err)), nil
	}

	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("description parameter required: %v", err)), nil
	}

	spec := generator.ServerSpec{
		Name:         name,
		Description:  description,
		Language:     request.GetString("language", "python"),
		TemplateType: request.GetString("template_type", "basic"),
		OutputDir:    request.GetString("output_dir", ""),
	}
	if features := request.GetString("features", ""); features != "" {
		for _, f := range strings.Split(features, ",") {
			if f = strings.TrimSpace(f); f != "" {
				spec.Features = append(spec.Features, f)
			}
		}
	}

	result, err := e.Generator.Generate(ctx, spec)
	if err != nil {
		// Suggest close template keys when the requested one does not exist
		if suggestions := e.Templates.Suggest(spec.Language, 5); len(suggestions) > 0 {
			return mcp.NewToolResultError(fmt.Sprintf("failed to generate server: %v (available templates: %s)",
				err, strings.Join(suggestions, ", "))), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate server: %v", err)), nil
	}

	clientConfig, err := json.MarshalIndent(result.ClientConfig, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode client config: %v", err)), nil
	}

	var report strings.Builder
	report.WriteString(fmt.Sprintf("✅ MCP server %q created successfully\n\n", result.ServerName))
	report.WriteString(fmt.Sprintf("Location: %s\n", result.OutputDir))
	report.WriteString(fmt.Sprintf("Template: %s\n", result.TemplateKey))
	report.WriteString(fmt.Sprintf("Main file: %s\n", result.MainFile))
	if len(spec.Features) > 0 {
		report.WriteString(fmt.Sprintf("Features: %s\n", strings.Join(spec.Features, ", ")))
	}
	report.WriteString("\nGenerated files:\n")
	for _, f := range result.Files {
		report.WriteString(fmt.Sprintf("  - %s\n", f))
	}
	report.WriteString("\nClient configuration snippet:\n")
	report.WriteString(string(clientConfig))
	report.WriteString("\n\nNext steps:\n")
	report.WriteString("  1. Review the generated main file and add your tools\n")
	report.WriteString("  2. Install the dependencies listed in the project manifest\n")
	report.WriteString("  3. Add the snippet above to your MCP client configuration\n")

	structured, err := toStructured(result)
	if err != nil {
		return mcp.NewToolResultText(report.String()), nil
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(report.String())},
		StructuredContent: structured,
		IsError:           false,
	}, nil
}

// handleListTemplates handles requests to list the template catalog, optionally filtered by language.
// Templates are grouped by language with their descriptions and supported features.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing an optional language filter
//
// Returns:
//   - The tool execution result with a grouped template listing
//   - An error only on internal failures
func (e *Engines) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	language := request.GetString("language", "")

	list := e.Templates.List(language)
	if len(list) == 0 {
		if language != "" {
			return mcp.NewToolResultError(fmt.Sprintf("no templates found for language %q (available languages: %s)",
				language, strings.Join(e.Templates.Languages(), ", "))), nil
		}
		return mcp.NewToolResultError("no templates available"), nil
	}

	grouped := make(map[string][]*scaffoldtpl.Template)
	for _, tpl := range list {
		grouped[tpl.Metadata.Language] = append(grouped[tpl.Metadata.Language], tpl)
	}
	languages := make([]string, 0, len(grouped))
	for lang := range grouped {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	var report strings.Builder
	report.WriteString(fmt.Sprintf("Available templates (%d):\n", len(list)))
	for _, lang := range languages {
		report.WriteString(fmt.Sprintf("\n%s:\n", lang))
		for _, tpl := range grouped[lang] {
			report.WriteString(fmt.Sprintf("  - %s: %s", tpl.Metadata.Name, tpl.Metadata.Description))
			if len(tpl.Metadata.Features) > 0 {
				report.WriteString(fmt.Sprintf(" (features: %s)", strings.Join(tpl.Metadata.Features, ", ")))
			}
			report.WriteString("\n")
		}
	}
	report.WriteString("\nUse preview_template to inspect a template before generating from it.")

	catalog := make([]map[string]any, 0, len(list))
	for _, tpl := range list {
		catalog = append(catalog, map[string]any{
			"key":         tpl.Key(),
			"name":        tpl.Metadata.Name,
			"language":    tpl.Metadata.Language,
			"description": tpl.Metadata.Description,
			"features":    tpl.Metadata.Features,
		})
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(report.String())},
		StructuredContent: map[string]any{"templates": catalog},
		IsError:           false,
	}, nil
}

// handlePreviewTemplate handles requests to preview a single template. The response
// includes the template metadata, the variables it expects, and its main source
// file rendered with example values.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the language and template type
//
// Returns:
//   - The tool execution result with the template preview
//   - An error only on internal failures; unknown templates are reported as tool errors
func (e *Engines) handlePreviewTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	language, err := request.RequireString("language")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("language parameter required: %v", err)), nil
	}

	templateType, err := request.RequireString("template_type")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("template_type parameter required: %v", err)), nil
	}

	tpl, err := e.Templates.Get(language, templateType)
	if err != nil {
		if suggestions := e.Templates.Suggest(language, 5); len(suggestions) > 0 {
			return mcp.NewToolResultError(fmt.Sprintf("%v (available templates: %s)",
				err, strings.Join(suggestions, ", "))), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	rendered, err := e.Templates.Render(language, templateType, map[string]any{
		"server_name": "example_server",
		"description": "Example rendering for preview",
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render template preview: %v", err)), nil
	}

	var report strings.Builder
	report.WriteString(fmt.Sprintf("Template: %s\n", tpl.Key()))
	report.WriteString(fmt.Sprintf("Description: %s\n", tpl.Metadata.Description))
	if len(tpl.Metadata.Features) > 0 {
		report.WriteString(fmt.Sprintf("Features: %s\n", strings.Join(tpl.Metadata.Features, ", ")))
	}
	if len(tpl.Metadata.Variables) > 0 {
		report.WriteString(fmt.Sprintf("Variables: %s\n", strings.Join(tpl.Metadata.Variables, ", ")))
	}
	report.WriteString(fmt.Sprintf("Main file extension: %s\n", scaffoldtpl.MainFileExt(language)))
	report.WriteString("\nMain source file (rendered with example values):\n\n")
	report.WriteString(rendered)

	return mcp.NewToolResultText(report.String()), nil
}

// handleSaveWorkflow handles requests to persist a reusable workflow. The steps
// parameter is validated against the workflow JSON schema before saving.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing name, description, and a JSON steps array
//
// Returns:
//   - The tool execution result confirming the save with the assigned workflow ID
//   - An error only on internal failures; malformed steps are reported as tool errors
func (e *Engines) handleSaveWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("name parameter required: %v", err)), nil
	}

	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("description parameter required: %v", err)), nil
	}

	stepsJSON, err := request.RequireString("steps")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("steps parameter required: %v", err)), nil
	}

	var steps []workflow.Step
	if err := json.Unmarshal([]byte(stepsJSON), &steps); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("steps must be a JSON array of step objects: %v", err)), nil
	}

	wf := &workflow.Workflow{
		Name:        name,
		Description: description,
		Steps:       steps,
	}

	id, err := e.Workflows.Save(wf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save workflow: %v", err)), nil
	}

	report := fmt.Sprintf("✅ Workflow %q saved with ID %s (%d steps)\n\nRun it with run_workflow using workflow_id %q.",
		name, id, len(steps), id)

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(report)},
		StructuredContent: map[string]any{"id": id, "name": name, "stepCount": len(steps)},
		IsError:           false,
	}, nil
}

// handleListWorkflows handles requests to list saved workflows with their
// identifiers, descriptions, and step counts.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request (no parameters)
//
// Returns:
//   - The tool execution result with the workflow summaries
//   - An error only on internal failures
func (e *Engines) handleListWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries := e.Workflows.List()
	if len(summaries) == 0 {
		return mcp.NewToolResultText("No saved workflows. Use save_workflow to create one."), nil
	}

	var report strings.Builder
	report.WriteString(fmt.Sprintf("Saved workflows (%d):\n\n", len(summaries)))
	for _, s := range summaries {
		report.WriteString(fmt.Sprintf("  - %s: %s (%d steps, created %s)\n",
			s.ID, s.Name, s.StepCount, s.CreatedAt.Format(time.RFC3339)))
		if s.Description != "" {
			report.WriteString(fmt.Sprintf("    %s\n", s.Description))
		}
	}

	structured, err := toStructured(map[string]any{"workflows": summaries})
	if err != nil {
		return mcp.NewToolResultText(report.String()), nil
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(report.String())},
		StructuredContent: structured,
		IsError:           false,
	}, nil
}

// handleRunWorkflow handles requests to execute a saved workflow. Step results
// are reported per step ID, and optional inputs override step configuration.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the workflow ID and optional JSON inputs
//
// Returns:
//   - The tool execution result with per-step results
//   - An error only on internal failures; execution failures are reported as tool errors
func (e *Engines) handleRunWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := request.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("workflow_id parameter required: %v", err)), nil
	}

	inputs := map[string]any{}
	if inputsJSON := request.GetString("inputs", ""); inputsJSON != "" {
		if err := json.Unmarshal([]byte(inputsJSON), &inputs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inputs must be a JSON object: %v", err)), nil
		}
	}

	results, err := e.Workflows.Execute(ctx, workflowID, inputs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("workflow execution failed: %v", err)), nil
	}

	stepIDs := make([]string, 0, len(results))
	for id := range results {
		stepIDs = append(stepIDs, id)
	}
	sort.Strings(stepIDs)

	var report strings.Builder
	report.WriteString(fmt.Sprintf("✅ Workflow %s completed (%d steps)\n\n", workflowID, len(results)))
	for _, id := range stepIDs {
		resultJSON, err := json.MarshalIndent(results[id], "", "  ")
		if err != nil {
			report.WriteString(fmt.Sprintf("Step %s: %v\n", id, results[id]))
			continue
		}
		report.WriteString(fmt.Sprintf("Step %s:\n%s\n\n", id, string(resultJSON)))
	}

	structured, err := toStructured(map[string]any{"workflowId": workflowID, "results": results})
	if err != nil {
		return mcp.NewToolResultText(report.String()), nil
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(report.String())},
		StructuredContent: structured,
		IsError:           false,
	}, nil
}

// handleGetResourceUsage handles requests for current resource usage statistics including memory and GC metrics.
// It collects comprehensive system and application resource data and formats it according to the requested output format.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing format and detail level parameters
//
// Returns:
//   - The tool execution result containing formatted resource usage data
//   - An error if resource collection or formatting fails
//
// The function supports both JSON and Markdown output formats, with optional detailed metrics
// including memory breakdown and system information.
func (e *Engines) handleGetResourceUsage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	detailed := request.GetBool("detailed", false)
	format := request.GetString("format", "json")

	// Collect resource usage data
	data := CollectResourceUsage(detailed)

	// Format output based on format parameter
	switch format {
	case "markdown":
		markdown := FormatResourceUsageAsMarkdown(data)
		return mcp.NewToolResultText(markdown), nil
	case "json":
		fallthrough
	default:
		jsonData, err := FormatResourceUsageAsJSON(data)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to format resource usage: %v", err)), nil
		}

		// Parse the JSON string back to a map for structured content
		var structuredData map[string]any
		if err := json.Unmarshal([]byte(jsonData), &structuredData); err != nil {
			// Fallback to text if parsing fails
			return mcp.NewToolResultText(jsonData), nil
		}

		// Return structured JSON content for programmatic access
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(jsonData),
			},
			StructuredContent: structuredData,
			IsError:           false,
		}, nil
	}
}

// handleGetAIGuidance handles requests for development guidance on a topic.
// It first asks the connected MCP client to sample a tailored response, using
// the curated guidance content as context. When the client cannot sample and
// an AI API key is configured, the OpenAI-compatible endpoint is called
// directly. Otherwise the curated content is returned as-is.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the topic and optional server type
//   - config: Server configuration providing AI API settings
//
// Returns:
//   - The tool execution result with guidance text
//   - An error only on internal failures
func (e *Engines) handleGetAIGuidance(ctx context.Context, request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("topic parameter required: %v", err)), nil
	}

	serverType := request.GetString("server_type", "")
	topic = guidance.NormalizeTopic(topic)

	// Curated content serves as both the fallback and the AI context
	staticContent := e.Guidance.Content(topic)

	samplingRequest := buildGuidanceSamplingRequest(topic, serverType, staticContent, config)

	// A client with sampling capability answers from its own model
	if srv := server.ServerFromContext(ctx); srv != nil {
		if samplingResult, err := srv.RequestSampling(ctx, samplingRequest); err == nil {
			return mcp.NewToolResultText(formatSampledGuidance(topic, staticContent, samplingResult)), nil
		}
	}

	// The client cannot sample, call the configured endpoint directly
	if config != nil && config.AI.APIKey != "" {
		samplingHandler := &DefaultSamplingHandler{
			apiKey:   config.AI.APIKey,
			endpoint: config.AI.Endpoint,
			model:    config.AI.Model,
			timeout:  time.Duration(config.AI.Timeout) * time.Second,
			client:   &http.Client{Timeout: time.Duration(config.AI.Timeout) * time.Second},
		}

		samplingResult, err := samplingHandler.CreateMessage(ctx, samplingRequest)
		if err != nil {
			// Fall back to curated content when the AI call fails
			result := fmt.Sprintf("⚠️ AI guidance request failed (%v), returning curated guidance instead.\n\n%s", err, staticContent)
			return mcp.NewToolResultText(result), nil
		}

		return mcp.NewToolResultText(formatSampledGuidance(topic, staticContent, samplingResult)), nil
	}

	// No sampling path available, serve the curated content
	result := fmt.Sprintf("Guidance: %s\n\n%s", topic, staticContent)
	if serverType != "" {
		result += fmt.Sprintf("\n\n(Set CREATOR_AI_APIKEY to get guidance tailored to %s servers.)", serverType)
	}

	return mcp.NewToolResultText(result), nil
}

// buildGuidanceSamplingRequest assembles the sampling request shared by the
// client-sampling and direct-endpoint paths.
func buildGuidanceSamplingRequest(topic, serverType, staticContent string, config *Config) mcp.CreateMessageRequest {
	// Read system prompt from embedded template
	systemPromptBytes, err := templates.MagicEmbed.ReadFile("guidance-system-prompt.md")
	systemPrompt := ""
	if err == nil {
		systemPrompt = string(systemPromptBytes)
	} else {
		// Fallback system prompt if file cannot be read
		systemPrompt = "You are an expert on the Model Context Protocol. Give practical, concrete advice for building MCP servers."
	}

	maxTokens := 4096
	temperature := 0.3
	if config != nil {
		maxTokens = config.AI.MaxTokens
		temperature = config.AI.Temperature
	}

	return mcp.CreateMessageRequest{
		CreateMessageParams: mcp.CreateMessageParams{
			Messages: []mcp.SamplingMessage{
				{
					Role:    mcp.RoleUser,
					Content: mcp.TextContent{Text: buildGuidancePrompt(topic, serverType, staticContent)},
				},
			},
			SystemPrompt: systemPrompt,
			MaxTokens:    maxTokens,
			Temperature:  temperature,
		},
	}
}

// formatSampledGuidance renders a sampling result for the tool response,
// keeping the curated content when the result carries no text.
func formatSampledGuidance(topic, staticContent string, samplingResult *mcp.CreateMessageResult) string {
	result := fmt.Sprintf("🤖 AI Guidance: %s\n\n", topic)
	if textContent, ok := samplingResult.SamplingMessage.Content.(mcp.TextContent); ok {
		result += textContent.Text
	} else {
		result += staticContent
	}
	result += fmt.Sprintf("\n\n---\n*AI Model: %s*", samplingResult.Model)
	return result
}

// buildGuidancePrompt assembles the user prompt sent to the AI endpoint,
// embedding the curated content as context.
func buildGuidancePrompt(topic, serverType, staticContent string) string {
	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("Give practical guidance on the MCP topic %q.\n", topic))
	if serverType != "" {
		prompt.WriteString(fmt.Sprintf("Tailor the advice to a %s style server.\n", serverType))
	}
	prompt.WriteString("\nReference material:\n\n")
	prompt.WriteString(staticContent)
	prompt.WriteString("\n\nExpand on the reference material with concrete examples and pitfalls.")
	return prompt.String()
}

// toStructured converts a value to a generic map via a JSON round trip so it
// can be attached to a result as structured content.
func toStructured(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
