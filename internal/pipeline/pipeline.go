package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/simpleray/SNSCheckerBack-phone/internal/aggregate"
	"github.com/simpleray/SNSCheckerBack-phone/internal/cache"
	"github.com/simpleray/SNSCheckerBack-phone/internal/datenorm"
	"github.com/simpleray/SNSCheckerBack-phone/internal/gazetteer"
	"github.com/simpleray/SNSCheckerBack-phone/internal/llm"
	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
	"github.com/simpleray/SNSCheckerBack-phone/internal/ner"
)

// Pipeline owns the startup tables and the analyzer built from configuration
type Pipeline struct {
	analyzer   *Analyzer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	renderer   *Renderer
	config     *model.Config
}

// NewPipeline loads the reference tables once and wires the analyzer.
// Missing data files degrade lookups but are not errors; an invalid
// timezone, reference time, scope or recognizer kind is.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	loc, err := time.LoadLocation(cfg.Analysis.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Analysis.Timezone, err)
	}

	var ref time.Time
	if cfg.Analysis.ReferenceTime != "" {
		ref, err = time.Parse(time.RFC3339, cfg.Analysis.ReferenceTime)
		if err != nil {
			return nil, fmt.Errorf("parse reference time: %w", err)
		}
	}

	scope, err := aggregate.ParseScope(string(cfg.Analysis.NormalizeScope))
	if err != nil {
		return nil, err
	}

	recognizer, err := ner.New(cfg.Recognizer)
	if err != nil {
		return nil, fmt.Errorf("recognizer: %w", err)
	}

	holidays := datenorm.LoadHolidays(cfg.Data.HolidaysCSV)
	gaz := gazetteer.Load(gazetteer.DefaultSources(cfg.Data))
	logger.Info("reference tables loaded", "places", gaz.Len(), "holidays", holidays.Len())

	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("failed to initialize LLM provider, explanations disabled", "provider", cfg.LLM.Provider, "error", err)
		} else {
			summarizer = s
		}
	}

	var explanationCache cache.Cache
	if summarizer.IsEnabled() {
		explanationCache, err = cache.New(cfg.Cache)
		if err != nil {
			logger.Warn("explanation cache unavailable", "error", err)
			explanationCache = nil
		}
	}

	analyzer := NewAnalyzer(Components{
		Recognizer: recognizer,
		Normalizer: datenorm.NewNormalizer(holidays, loc),
		Resolver:   gazetteer.NewResolver(gaz),
		Summarizer: summarizer,
		Cache:      explanationCache,
	}, Options{
		Scope:         scope,
		ReferenceTime: ref,
		MaxTextLength: cfg.Analysis.MaxTextLength,
		HTMLInput:     cfg.Analysis.HTMLInput,
		CacheTTL:      cfg.Cache.MemoryTTL,
	})

	return &Pipeline{
		analyzer:   analyzer,
		summarizer: summarizer,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
	}, nil
}

// Analyzer returns the configured analyzer
func (p *Pipeline) Analyzer() *Analyzer {
	return p.analyzer
}

// ProviderName returns the explanation provider, or "" when disabled
func (p *Pipeline) ProviderName() string {
	return p.summarizer.ProviderName()
}

// Analyze runs the analyzer on one post
func (p *Pipeline) Analyze(ctx context.Context, text string) (*model.Report, error) {
	return p.analyzer.Analyze(ctx, text)
}

// RenderReport renders the report to the specified outputs and prints a
// summary to w
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	// Render JSON
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	// Render Markdown
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Render LLM summary to separate file if present
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		llmMarkdown := llm.RenderSeparateMarkdown(report.LLM)
		if err := p.renderer.RenderLLMMarkdown(llmMarkdown, llmMdPath); err != nil {
			logger.Warn("failed to write explanation", "path", llmMdPath, "error", err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote LLM Summary: %s\n", llmMdPath)
		}
	}

	p.renderer.RenderSummary(w, report)

	return nil
}
