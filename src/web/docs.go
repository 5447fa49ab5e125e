// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package web serves the scaffolding engines over a JSON HTTP API.
//
// It mirrors the MCP tool surface for environments without an MCP client:
// template browsing and preview, server generation, saved workflow management
// and execution, and curated guidance topics. The listen address, basic auth,
// and interface binding are controlled by the GRADIO_* environment variables
// read by the config package.
package web
