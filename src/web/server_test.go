// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	creatorcfg "github.com/forgeworks/mcp-creator/src/config"
	"github.com/forgeworks/mcp-creator/src/logger"
	mcpserver "github.com/forgeworks/mcp-creator/src/mcp-server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(*creatorcfg.Settings)) *Server {
	t.Helper()

	settings := creatorcfg.Defaults()
	settings.DefaultOutputDir = t.TempDir()
	settings.TemplateCacheDir = t.TempDir()
	settings.WorkflowSaveDir = t.TempDir()
	settings.TemplateUpdateCheck = false
	if mutate != nil {
		mutate(&settings)
	}

	engines, err := mcpserver.NewEngines(&settings, logger.NewCLILogger())
	require.NoError(t, err)

	s, err := New(engines, "test")
	require.NoError(t, err)

	return s
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestListTemplates(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	templates, ok := body["templates"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, templates)

	languages, ok := body["languages"].([]any)
	require.True(t, ok)
	assert.Contains(t, languages, "python")
}

func TestListTemplates_LanguageFilter(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/templates?language=python", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	for _, entry := range body["templates"].([]any) {
		assert.Equal(t, "python", entry.(map[string]any)["language"])
	}
}

func TestListTemplates_UnknownLanguage(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/templates?language=cobol", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "cobol")
}

func TestPreviewTemplate(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/templates/python/basic", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "python:basic", body["key"])
	rendered, ok := body["rendered"].(string)
	require.True(t, ok)
	assert.Contains(t, rendered, "example_server")
}

func TestPreviewTemplate_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/templates/python/nonexistent", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["suggestions"])
}

func TestGenerate(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/generate",
		`{"name":"My Web Server","description":"A server generated over HTTP","language":"python","template_type":"basic"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "my_web_server", body["serverName"])
	assert.NotEmpty(t, body["outputDir"])
	assert.NotEmpty(t, body["files"])
}

func TestGenerate_MissingFields(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/generate", `{"name":"incomplete"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_UnknownTemplate(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/generate",
		`{"name":"s","description":"d","language":"python","template_type":"nonexistent"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["suggestions"])
}

func TestWorkflowLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	// Save
	rec := doRequest(t, s, http.MethodPost, "/api/workflows", `{
		"name": "http workflow",
		"description": "saved over the API",
		"steps": [
			{"id": "pick", "type": "template_selection", "config": {"language": "python", "template_type": "basic"}},
			{"id": "gen", "type": "generation", "config": {"name": "wf_http_server", "description": "generated by workflow"}, "dependencies": ["pick"]}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	id, ok := body["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	// List
	rec = doRequest(t, s, http.MethodGet, "/api/workflows", "")
	require.Equal(t, http.StatusOK, rec.Code)
	listBody := decodeBody(t, rec)
	assert.GreaterOrEqual(t, listBody["count"].(float64), float64(1))

	// Run
	rec = doRequest(t, s, http.MethodPost, "/api/workflows/"+id+"/run", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	runBody := decodeBody(t, rec)
	assert.Equal(t, id, runBody["workflowId"])

	results, ok := runBody["results"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, results, "gen")
}

func TestRunWorkflow_Unknown(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/workflows/does-not-exist/run", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSaveWorkflow_InvalidSteps(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/workflows", `{
		"name": "broken",
		"steps": [{"id": "a", "type": "generation", "dependencies": ["missing"]}]
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGuidance(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/guidance/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "tools", body["topic"])
	assert.NotEmpty(t, body["content"])
}

func TestBasicAuth(t *testing.T) {
	s := newTestServer(t, func(settings *creatorcfg.Settings) {
		settings.WebAuthEnabled = true
		settings.WebAuth = "admin:secret"
	})

	// Unauthenticated request is rejected
	rec := doRequest(t, s, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health endpoint stays open
	rec = doRequest(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Authenticated request succeeds
	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	req.SetBasicAuth("admin", "secret")
	authRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(authRec, req)
	require.Equal(t, http.StatusOK, authRec.Code)
}

func TestBasicAuth_MalformedCredentials(t *testing.T) {
	settings := creatorcfg.Defaults()
	settings.DefaultOutputDir = t.TempDir()
	settings.TemplateCacheDir = t.TempDir()
	settings.WorkflowSaveDir = t.TempDir()
	settings.TemplateUpdateCheck = false
	settings.WebAuthEnabled = true
	settings.WebAuth = "missing-colon-credentials"

	engines, err := mcpserver.NewEngines(&settings, logger.NewCLILogger())
	require.NoError(t, err)

	// Auth requested without usable credentials must refuse to start,
	// never serve the API open.
	s, err := New(engines, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRADIO_AUTH")
	assert.Nil(t, s)
}

func TestAddr(t *testing.T) {
	local := newTestServer(t, nil)
	assert.Equal(t, "127.0.0.1:7860", local.Addr())

	shared := newTestServer(t, func(settings *creatorcfg.Settings) {
		settings.WebShare = true
		settings.WebPort = 8080
	})
	assert.Equal(t, "0.0.0.0:8080", shared.Addr())
}

func TestGeneratedFilesLandInOutputDir(t *testing.T) {
	outputDir := t.TempDir()
	s := newTestServer(t, func(settings *creatorcfg.Settings) {
		settings.DefaultOutputDir = outputDir
	})

	rec := doRequest(t, s, http.MethodPost, "/api/generate",
		`{"name":"placed","description":"output dir check"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	got, ok := body["outputDir"].(string)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(outputDir, "placed"), got)
}
