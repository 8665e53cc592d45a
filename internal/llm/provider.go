package llm

import (
	"context"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes the user-facing explanation of an analysis report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for explanation generation
type SummarizeRequest struct {
	// Report is the analysis report to explain. Its scores are final.
	Report model.Report

	// System overrides the system prompt (if empty, use SystemPrompt)
	System string

	// Prompt is an optional custom prompt (if empty, use BuildPrompt)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the generated explanation
type SummarizeResponse struct {
	// Summary is the generated explanation text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictRedaction masks contact identifiers in the prompt and in the
	// generated text (should always be true)
	StrictRedaction bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:        "", // Disabled by default
		Model:           "",
		Timeout:         30,
		StrictRedaction: true,
		MaxTokens:       600,
	}
}

func resolveRequest(req SummarizeRequest, config Config, fallbackModel string) (system, prompt, model string, maxTokens int) {
	system = req.System
	if system == "" {
		system = SystemPrompt(req.Report, config.StrictRedaction)
	}
	prompt = req.Prompt
	if prompt == "" {
		prompt = BuildPrompt()
	}

	model = req.Model
	if model == "" {
		model = config.Model
	}
	if model == "" {
		model = fallbackModel
	}

	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 600
	}
	return system, prompt, model, maxTokens
}
