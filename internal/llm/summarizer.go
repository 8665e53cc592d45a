package llm

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Summarizer turns an analysis report into a short user-facing explanation.
// It never changes scores and never fails an analysis: problems are reported
// as warnings on the returned summary.
type Summarizer struct {
	provider  Provider
	config    Config
	available atomic.Bool
}

// NewSummarizer creates a summarizer for the configured provider. An empty
// provider yields a disabled summarizer.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// NewSummarizerWithProvider wraps an existing provider
func NewSummarizerWithProvider(provider Provider, config Config) *Summarizer {
	return &Summarizer{provider: provider, config: config}
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary explains report. It returns (nil, nil) when disabled.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Enabled:         true,
		Provider:        s.provider.Name(),
		Model:           s.config.Model,
		StrictRedaction: s.config.StrictRedaction,
	}

	// A positive availability check is remembered; a negative one is retried next time
	if !s.available.Load() {
		if !s.provider.IsAvailable(ctx) {
			summary.Enabled = false
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("LLM provider %s is not available (check API key or connectivity)", s.provider.Name()))
			return summary, nil
		}
		s.available.Store(true)
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		logger.Warn("explanation generation failed", "provider", s.provider.Name(), "error", err)
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM summary generation failed: %v", err))
		return summary, nil
	}

	detail := resp.Summary
	if s.config.StrictRedaction {
		var masked int
		detail, masked = Redact(detail, ProtectedValues(report.Result))
		if masked > 0 {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("Masked %d identifier value(s) echoed by the model", masked))
		}
	}

	summary.Detail = strings.TrimSpace(detail)
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	if resp.TokensUsed > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	}

	return summary, nil
}

// RenderSeparateMarkdown renders the explanation as a standalone Markdown document
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Explanation\n\n")
	b.WriteString("> **GENERATED CONTENT.** This text was written by a language model from the analysis result. ")
	b.WriteString("The direct and indirect percentages were determined independently and are not affected by it.\n\n")

	fmt.Fprintf(&b, "- **Provider:** %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model:** %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict Redaction:** %t\n", summary.StrictRedaction)
	if summary.Cached {
		b.WriteString("- **Cached:** true\n")
	}
	b.WriteString("\n")

	if summary.Detail == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.Detail)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
