// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package workflow

import (
	"fmt"
	"time"
)

// StepType identifies what a workflow step does when executed.
type StepType string

// Supported step types.
const (
	// StepInput collects a value from the execution inputs.
	StepInput StepType = "input"
	// StepTemplateSelection records the template to generate from.
	StepTemplateSelection StepType = "template_selection"
	// StepAIGuidance fetches guidance content for a topic.
	StepAIGuidance StepType = "ai_guidance"
	// StepGeneration generates a server from prior step results.
	StepGeneration StepType = "generation"
)

// Step is a single unit of work within a workflow.
type Step struct {
	// ID: Step identifier, unique within the workflow
	ID string `json:"id"`
	// Type: What the step does (input, template_selection, ai_guidance, generation)
	Type StepType `json:"type"`
	// Config: Step-specific parameters
	Config map[string]any `json:"config,omitempty"`
	// Dependencies: Step IDs that must complete before this step runs
	Dependencies []string `json:"dependencies,omitempty"`
}

// Workflow is a named, persisted sequence of scaffolding steps.
type Workflow struct {
	// ID: Short identifier assigned on save
	ID string `json:"id"`
	// Name: Human-readable workflow name
	Name string `json:"name"`
	// Description: What the workflow accomplishes
	Description string `json:"description"`
	// Steps: Ordered step list; execution order is determined by dependencies
	Steps []Step `json:"steps"`
	// Version: Workflow format version
	Version string `json:"version"`
	// CreatedAt: Save timestamp in UTC
	CreatedAt time.Time `json:"created_at"`
	// Metadata: Free-form annotations
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Summary is the listing view of a saved workflow.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StepCount   int       `json:"stepCount"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks structural invariants that the JSON schema cannot express,
// such as dependency references pointing at real steps.
func (w *Workflow) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if len(w.Steps) == 0 {
		return fmt.Errorf("workflow must have at least one step")
	}

	ids := make(map[string]struct{}, len(w.Steps))
	for _, step := range w.Steps {
		if step.ID == "" {
			return fmt.Errorf("every step needs an id")
		}
		if _, dup := ids[step.ID]; dup {
			return fmt.Errorf("duplicate step id %q", step.ID)
		}
		ids[step.ID] = struct{}{}

		switch step.Type {
		case StepInput, StepTemplateSelection, StepAIGuidance, StepGeneration:
		default:
			return fmt.Errorf("step %q has unknown type %q", step.ID, step.Type)
		}
	}

	for _, step := range w.Steps {
		for _, dep := range step.Dependencies {
			if _, ok := ids[dep]; !ok {
				return fmt.Errorf("step %q depends on unknown step %q", step.ID, dep)
			}
		}
	}
	return nil
}
