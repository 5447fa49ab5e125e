// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server template files.
// It offers a reusable abstraction for accessing embedded markdown templates used
// throughout the MCP server, including server instructions, prompt conversations,
// CLI help text, and AI system prompts.
//
// The package provides thread-safe access to embedded files through the [EmbedFS] interface,
// with [MagicEmbed] serving as the default implementation for convenient template access.
// This enables efficient reuse of template files across different MCP server components
// while maintaining clean separation of concerns and centralized template management.
//
// Key features:
//   - Thread-safe embedded file access
//   - Consistent interface abstraction over [embed.FS]
//   - Centralized template file management
//   - Support for server instructions, prompt templates, and CLI help
//
// Example usage:
//
//	import "github.com/forgeworks/mcp-creator/src/mcp-server/templates"
//
//	// Read the server instructions template
//	content, err := templates.MagicEmbed.ReadFile("creator_instructions.md")
//	if err != nil {
//		return fmt.Errorf("failed to read instructions: %w", err)
//	}
//
//	// List all available template files
//	entries, err := templates.MagicEmbed.ReadDir(".")
//	if err != nil {
//		return fmt.Errorf("failed to list templates: %w", err)
//	}
package templates
