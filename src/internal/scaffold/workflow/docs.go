// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package workflow persists and executes named scaffolding workflows.
//
// A workflow is an ordered set of typed steps with dependencies between them.
// Workflows are stored as JSON files, validated against a schema on load, and
// executed with dependency gating under a configurable time bound.
package workflow
