// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package workflow

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// workflowSchema validates persisted workflow files before they enter the
// engine. Structural checks beyond the schema live in [Workflow.Validate].
const workflowSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "steps"],
	"properties": {
		"id": {"type": "string"},
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"version": {"type": "string"},
		"created_at": {"type": "string"},
		"metadata": {"type": "object"},
		"steps": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id", "type"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"type": {
						"type": "string",
						"enum": ["input", "template_selection", "ai_guidance", "generation"]
					},
					"config": {"type": "object"},
					"dependencies": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

// validateWorkflowJSON checks raw workflow file contents against the schema.
func validateWorkflowJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(workflowSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("workflow validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var issues []string
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("workflow validation failed: %s", strings.Join(issues, "; "))
}
