// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package web

import (
	"net/http"
	"time"

	"github.com/forgeworks/mcp-creator/src/internal/scaffold/generator"
	"github.com/forgeworks/mcp-creator/src/internal/scaffold/guidance"
	"github.com/forgeworks/mcp-creator/src/internal/scaffold/workflow"
	"github.com/gin-gonic/gin"
)

// generateRequest is the JSON body for POST /api/generate.
type generateRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Language     string   `json:"language"`
	TemplateType string   `json:"template_type"`
	Features     []string `json:"features"`
	OutputDir    string   `json:"output_dir"`
}

// saveWorkflowRequest is the JSON body for POST /api/workflows.
type saveWorkflowRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Steps       []workflow.Step `json:"steps" binding:"required"`
}

// runWorkflowRequest is the JSON body for POST /api/workflows/:id/run.
// Inputs are optional runtime values consumed by input steps.
type runWorkflowRequest struct {
	Inputs map[string]any `json:"inputs"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListTemplates(c *gin.Context) {
	language := c.Query("language")
	list := s.engines.Templates.List(language)
	if language != "" && len(list) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "no templates for language " + language,
			"languages": s.engines.Templates.Languages(),
		})
		return
	}

	templates := make([]gin.H, 0, len(list))
	for _, t := range list {
		templates = append(templates, gin.H{
			"key":         t.Key(),
			"name":        t.Metadata.Name,
			"language":    t.Metadata.Language,
			"description": t.Metadata.Description,
			"features":    t.Metadata.Features,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"languages": s.engines.Templates.Languages(),
	})
}

func (s *Server) handlePreviewTemplate(c *gin.Context) {
	language := c.Param("language")
	name := c.Param("name")

	tpl, err := s.engines.Templates.Get(language, name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":       err.Error(),
			"suggestions": s.engines.Templates.Suggest(language, 5),
		})
		return
	}

	rendered, err := s.engines.Templates.Render(language, name, map[string]any{
		"server_name": "example_server",
		"description": "Example rendering for preview",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":         tpl.Key(),
		"description": tpl.Metadata.Description,
		"features":    tpl.Metadata.Features,
		"variables":   tpl.Metadata.Variables,
		"rendered":    rendered,
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.engines.Generator.Generate(c.Request.Context(), generator.ServerSpec{
		Name:         req.Name,
		Description:  req.Description,
		Language:     req.Language,
		TemplateType: req.TemplateType,
		Features:     req.Features,
		OutputDir:    req.OutputDir,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       err.Error(),
			"suggestions": s.engines.Templates.Suggest(req.Language, 5),
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (s *Server) handleListWorkflows(c *gin.Context) {
	workflows := s.engines.Workflows.List()
	c.JSON(http.StatusOK, gin.H{
		"workflows": workflows,
		"count":     len(workflows),
	})
}

func (s *Server) handleSaveWorkflow(c *gin.Context) {
	var req saveWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.engines.Workflows.Save(&workflow.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Steps:       req.Steps,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        id,
		"name":      req.Name,
		"stepCount": len(req.Steps),
	})
}

func (s *Server) handleRunWorkflow(c *gin.Context) {
	id := c.Param("id")

	var req runWorkflowRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	results, err := s.engines.Workflows.Execute(c.Request.Context(), id, req.Inputs)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workflowId": id,
		"results":    results,
	})
}

func (s *Server) handleGuidance(c *gin.Context) {
	topic := guidance.NormalizeTopic(c.Param("topic"))
	c.JSON(http.StatusOK, gin.H{
		"topic":   topic,
		"content": s.engines.Guidance.Content(topic),
		"topics":  s.engines.Guidance.Topics(),
	})
}
