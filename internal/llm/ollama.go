package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/util"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaProvider talks to a local Ollama server through its chat endpoint
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count,omitempty"`
	EvalCount       int           `json:"eval_count,omitempty"`
}

type ollamaTags struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // local models load slowly on first use
	}

	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable reports whether the server answers and, when a model is
// configured, whether that model has been pulled
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	var tags ollamaTags
	if err := p.call(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		logger.Warn("Ollama availability check failed", "base_url", p.baseURL, "error", err)
		return false
	}

	if p.config.Model == "" {
		return true
	}
	for _, m := range tags.Models {
		if sameModel(m.Name, p.config.Model) {
			return true
		}
	}
	logger.Warn("Ollama model not pulled", "model", p.config.Model, "base_url", p.baseURL)
	return false
}

// sameModel treats "name" and "name:latest" as the same model
func sameModel(a, b string) bool {
	return strings.TrimSuffix(a, ":latest") == strings.TrimSuffix(b, ":latest")
}

// Summarize asks the model for the explanation as a system + user chat
func (p *OllamaProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	system, prompt, model, maxTokens := resolveRequest(req, p.config, "")
	if model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, qwen2.5:7b)")
	}

	chat := ollamaChatRequest{
		Model: model,
		Messages: []ollamaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Options: ollamaOptions{Temperature: 0.7, NumPredict: maxTokens},
	}

	var resp ollamaChatResponse
	if err := p.call(ctx, http.MethodPost, "/api/chat", chat, &resp); err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	summary := strings.TrimSpace(resp.Message.Content)
	if summary == "" {
		return nil, fmt.Errorf("ollama returned an empty message")
	}

	// Counts are missing for some models; fall back to ~4 bytes per token
	tokensUsed := resp.PromptEvalCount + resp.EvalCount
	if tokensUsed == 0 {
		tokensUsed = (len(system) + len(prompt) + len(summary)) / 4
	}

	return &SummarizeResponse{
		Summary:    summary,
		Model:      resp.Model,
		TokensUsed: tokensUsed,
	}, nil
}

// call sends a JSON request (nil in means no body) and decodes the reply into out
func (p *OllamaProvider) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API error (%d): %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
