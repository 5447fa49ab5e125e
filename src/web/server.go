// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	creatorcfg "github.com/forgeworks/mcp-creator/src/config"
	"github.com/forgeworks/mcp-creator/src/logger"
	mcpserver "github.com/forgeworks/mcp-creator/src/mcp-server"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end for the scaffolding engines.
//
// It exposes the same operations as the MCP tools over a small JSON API so the
// generator can be driven from a browser or scripts without an MCP client.
type Server struct {
	engines  *mcpserver.Engines
	settings *creatorcfg.Settings
	version  string
	log      logger.Logger
	router   *gin.Engine
}

// New creates a web server backed by the given engine bundle.
//
// Routing, CORS, and optional basic auth are configured from the engine's
// runtime settings (GRADIO_* environment variables). When auth is enabled
// but GRADIO_AUTH is not in user:password form, New refuses to start rather
// than serving the API unauthenticated.
func New(engines *mcpserver.Engines, version string) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	s := &Server{
		engines:  engines,
		settings: engines.Settings,
		version:  version,
		log:      engines.Log,
		router:   router,
	}
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) registerRoutes() error {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	if s.settings.WebAuthEnabled {
		user, password, ok := s.settings.WebCredentials()
		if !ok {
			return errors.New("web auth enabled but GRADIO_AUTH is not in user:password form")
		}
		api.Use(gin.BasicAuth(gin.Accounts{user: password}))
	}

	api.GET("/templates", s.handleListTemplates)
	api.GET("/templates/:language/:name", s.handlePreviewTemplate)
	api.POST("/generate", s.handleGenerate)
	api.GET("/workflows", s.handleListWorkflows)
	api.POST("/workflows", s.handleSaveWorkflow)
	api.POST("/workflows/:id/run", s.handleRunWorkflow)
	api.GET("/guidance/:topic", s.handleGuidance)
	return nil
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address derived from the runtime settings.
// WebShare binds to all interfaces, otherwise the server stays on localhost.
func (s *Server) Addr() string {
	host := "127.0.0.1"
	if s.settings.WebShare {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, s.settings.WebPort)
}

// Run serves the API until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()
	s.log.Printf("web interface listening on http://%s", srv.Addr)

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web server shutdown: %w", err)
		}
		return nil
	}
}
