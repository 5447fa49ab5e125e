// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the MCP Creator.
// The root command starts the MCP server on stdio; subcommands expose the
// scaffolding engines directly for terminal use, covering template listing,
// project generation, saved workflow inspection, and the web interface.
// The package integrates with the mcp-server CLI framework for shared flag
// handling and embedded help text.
package cli
