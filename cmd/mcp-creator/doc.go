// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Command mcp-creator is the main entry point for the MCP Creator server.
// Without arguments it speaks the MCP protocol over stdio; subcommands expose
// the scaffolding engines directly (templates, generate, workflows, web).
package main
