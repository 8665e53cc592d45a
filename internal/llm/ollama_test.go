package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Summarize_Success(t *testing.T) {
	// Mock server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.URL.Path != "/api/chat" {
			t.Errorf("Expected path /api/chat, got %s", r.URL.Path)
		}

		var apiReq ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&apiReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if len(apiReq.Messages) != 2 || apiReq.Messages[0].Role != "system" || apiReq.Messages[1].Role != "user" {
			t.Errorf("Expected system and user messages, got %+v", apiReq.Messages)
			return
		}
		if !strings.Contains(apiReq.Messages[0].Content, "個人情報（間接）の割合: 10%") {
			t.Errorf("Expected indirect percentage in system message, got %s", apiReq.Messages[0].Content)
		}
		if apiReq.Stream {
			t.Error("Expected non-streaming request")
		}

		// Return success response
		resp := ollamaChatResponse{
			Model:           "llama3.1",
			Message:         ollamaMessage{Role: "assistant", Content: "わたしが見たところ、少し気をつけたほうがいいかも！"},
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	// Create provider
	config := Config{
		BaseURL:         server.URL,
		Model:           "llama3.1",
		Timeout:         5,
		StrictRedaction: true,
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	// Test Summarize
	req := SummarizeRequest{
		Report: testReport(),
	}

	resp, err := provider.Summarize(context.Background(), req)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if resp.Summary != "わたしが見たところ、少し気をつけたほうがいいかも！" {
		t.Errorf("Unexpected summary: %s", resp.Summary)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Summarize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "Internal Server Error"}`))
	}))
	defer server.Close()

	config := Config{
		BaseURL: server.URL,
		Model:   "llama3.1",
		Timeout: 5,
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := SummarizeRequest{
		Report: testReport(),
	}

	_, err = provider.Summarize(context.Background(), req)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Internal Server Error") {
		t.Errorf("Expected error message to contain 'Internal Server Error', got %v", err)
	}
}

func TestOllamaProvider_Summarize_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	config := Config{
		BaseURL: server.URL,
		Model:   "llama3.1",
		Timeout: 5,
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := SummarizeRequest{
		Report: testReport(),
	}

	_, err = provider.Summarize(context.Background(), req)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:latest"},{"name":"qwen2.5:7b"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	config := Config{
		BaseURL: server.URL,
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	for model, want := range map[string]bool{"llama3.1": true, "qwen2.5:7b": true, "mistral": false} {
		p, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: model})
		if got := p.IsAvailable(context.Background()); got != want {
			t.Errorf("IsAvailable with model %s = %v, want %v", model, got, want)
		}
	}

	// Test failure
	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestOllamaProvider_Summarize_NoModel(t *testing.T) {
	config := Config{
		BaseURL: "http://localhost:11434",
		Model:   "", // No model
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := SummarizeRequest{
		Report: testReport(),
	}

	_, err = provider.Summarize(context.Background(), req)
	if err == nil {
		t.Fatal("Expected error when no model provided, got nil")
	}
	if !strings.Contains(err.Error(), "must be specified") {
		t.Errorf("Expected error about missing model, got %v", err)
	}
}

func TestOllamaProvider_Summarize_EmptyMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"llama3.1","message":{"role":"assistant","content":"  "},"done":true}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Summarize(context.Background(), SummarizeRequest{Report: testReport()}); err == nil {
		t.Fatal("Expected error for empty message, got nil")
	}
}
