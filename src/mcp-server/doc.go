// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server framework for MCP Creator, a meta-server
// that scaffolds new MCP servers from language templates. It implements the Model Context
// Protocol ([MCP]) with tools for server generation, template browsing, saved workflows,
// and AI-powered guidance via sampling.
// The package uses a builder pattern for server construction and supports bidirectional AI communication.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
