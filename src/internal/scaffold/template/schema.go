// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package template

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// metadataSchema validates a template's metadata.json before it enters the
// catalog. Unknown keys are allowed so templates can carry extra annotations.
const metadataSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"language": {"type": "string", "minLength": 1},
		"features": {"type": "array", "items": {"type": "string"}},
		"variables": {"type": "array", "items": {"type": "string"}},
		"mainTemplate": {"type": "string"}
	}
}`

// validateMetadata checks raw metadata.json contents against the metadata
// schema and returns a single error aggregating all violations.
func validateMetadata(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(metadataSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("metadata validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var issues []string
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("metadata validation failed: %s", strings.Join(issues, "; "))
}
