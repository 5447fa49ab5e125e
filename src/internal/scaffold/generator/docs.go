// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package generator turns a server specification and a scaffolding template
// into a generated MCP server project on disk.
//
// Generation is bounded by a weighted semaphore so bulk callers cannot
// overload the host, and an optional sandbox confines all output beneath the
// configured default output directory.
package generator
