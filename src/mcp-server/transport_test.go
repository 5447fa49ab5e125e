// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// mockSamplingHandler returns a fixed completion for transport tests
type mockSamplingHandler struct{}

func (m *mockSamplingHandler) CreateMessage(ctx context.Context, request mcp.CreateMessageRequest) (*mcp.CreateMessageResult, error) {
	return &mcp.CreateMessageResult{
		SamplingMessage: mcp.SamplingMessage{
			Role:    mcp.RoleAssistant,
			Content: mcp.NewTextContent("mock completion"),
		},
		Model:      "mock-model",
		StopReason: "end",
	}, nil
}

// TestGuidanceUsesClientSampling drives get_ai_guidance end to end over the
// in-memory transport: the tool asks the connected client to sample, the
// transport intercepts the sampling request, and the handler's answer comes
// from the client-side model even though no API key is configured.
func TestGuidanceUsesClientSampling(t *testing.T) {
	engines := newTestEngines(t)

	config, err := loadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	config.AI.APIKey = ""

	s := server.NewMCPServer(
		"Test Server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.EnableSampling()

	guidanceTool := mcp.NewTool("get_ai_guidance",
		mcp.WithDescription("Development guidance by topic"),
		mcp.WithString("topic", mcp.Required()),
		mcp.WithString("server_type"),
	)
	s.AddTool(guidanceTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return engines.handleGetAIGuidance(ctx, request, config)
	})

	transport := NewInMemoryTransport(t.Context())
	transport.SetSamplingHandler(&mockSamplingHandler{})
	if err := transport.ConnectServer(t.Context(), s); err != nil {
		t.Fatalf("Failed to connect server: %v", err)
	}
	defer transport.Close()

	initializeTransport(t, transport)

	request, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "tools/call",
		"id":      2,
		"params": map[string]any{
			"name": "get_ai_guidance",
			"arguments": map[string]any{
				"topic": "tools",
			},
		},
	})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	if err := transport.WriteMessage(request); err != nil {
		t.Fatalf("Failed to write request: %v", err)
	}

	respData, err := transport.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(respData, &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("Expected result object, got: %s", string(respData))
	}
	content, ok := result["content"].([]any)
	if !ok || len(content) == 0 {
		t.Fatalf("Expected content in result, got: %v", result["content"])
	}
	textContent, ok := content[0].(map[string]any)
	if !ok {
		t.Fatalf("Content entry is not an object: %v", content[0])
	}
	text, _ := textContent["text"].(string)

	if !strings.Contains(text, "mock completion") {
		t.Errorf("Expected client-sampled text, got: %.120s", text)
	}
	if !strings.Contains(text, "mock-model") {
		t.Errorf("Expected client model attribution, got: %.120s", text)
	}
}

func TestInMemoryTransport_HandleSampling(t *testing.T) {
	transport := NewInMemoryTransport(t.Context())
	transport.SetSamplingHandler(&mockSamplingHandler{})

	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  string(mcp.MethodSamplingCreateMessage),
		"id":      float64(7),
		"params": map[string]any{
			"messages": []any{
				map[string]any{
					"role": "user",
					"content": map[string]any{
						"type": "text",
						"text": "hello",
					},
				},
			},
			"maxTokens": float64(128),
		},
	}

	go transport.handleSampling(req)

	select {
	case data := <-transport.internalRespCh:
		var resp map[string]any
		if err := json.Unmarshal(data, &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if id, ok := resp["id"].(float64); !ok || id != 7 {
			t.Errorf("Expected response id 7, got %v", resp["id"])
		}
		if resp["error"] != nil {
			t.Errorf("Expected no error, got %v", resp["error"])
		}
		result, ok := resp["result"].(map[string]any)
		if !ok {
			t.Fatalf("Expected result object, got %T", resp["result"])
		}
		if result["model"] != "mock-model" {
			t.Errorf("Expected model 'mock-model', got %v", result["model"])
		}
	case <-time.After(time.Second):
		t.Fatal("No sampling response received on internalRespCh")
	}
}

func TestInMemoryTransport_HandleSampling_NoHandler(t *testing.T) {
	transport := NewInMemoryTransport(t.Context())

	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  string(mcp.MethodSamplingCreateMessage),
		"id":      float64(1),
		"params":  map[string]any{},
	}

	go transport.handleSampling(req)

	select {
	case data := <-transport.internalRespCh:
		var resp map[string]any
		if err := json.Unmarshal(data, &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		errObj, ok := resp["error"].(map[string]any)
		if !ok {
			t.Fatalf("Expected error object, got %v", resp["error"])
		}
		if code, ok := errObj["code"].(float64); !ok || code != -32603 {
			t.Errorf("Expected error code -32603, got %v", errObj["code"])
		}
	case <-time.After(time.Second):
		t.Fatal("No error response received on internalRespCh")
	}
}

func TestInMemoryTransport_SendToRecv(t *testing.T) {
	transport := NewInMemoryTransport(t.Context())

	msg := []byte(`{"jsonrpc":"2.0","method":"notifications/progress","params":{}}`)
	transport.sendToRecv(msg)

	data, err := transport.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if string(data) != string(msg) {
		t.Errorf("Expected %s, got %s", msg, data)
	}
}

func TestInMemoryTransport_SendJSONRPCNotification(t *testing.T) {
	transport := NewInMemoryTransport(t.Context())

	transport.SendJSONRPCNotification("notifications/message", map[string]any{
		"level": "info",
		"data":  "template reload complete",
	})

	data, err := transport.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var notification map[string]any
	if err := json.Unmarshal(data, &notification); err != nil {
		t.Fatalf("Failed to unmarshal notification: %v", err)
	}
	if notification["method"] != "notifications/message" {
		t.Errorf("Expected method 'notifications/message', got %v", notification["method"])
	}
	if notification["id"] != nil {
		t.Errorf("Notifications must not carry an id, got %v", notification["id"])
	}
}

func TestInMemoryTransport_WriteAfterClose(t *testing.T) {
	transport := NewInMemoryTransport(t.Context())
	if err := transport.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := transport.WriteMessage([]byte(`{}`)); err == nil {
		t.Error("Expected error writing to closed transport")
	}
}
