package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/simpleray/SNSCheckerBack-phone/internal/aggregate"
	"github.com/simpleray/SNSCheckerBack-phone/internal/cache"
	"github.com/simpleray/SNSCheckerBack-phone/internal/datenorm"
	"github.com/simpleray/SNSCheckerBack-phone/internal/extract"
	"github.com/simpleray/SNSCheckerBack-phone/internal/gazetteer"
	"github.com/simpleray/SNSCheckerBack-phone/internal/llm"
	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
	"github.com/simpleray/SNSCheckerBack-phone/internal/ner"
	"github.com/simpleray/SNSCheckerBack-phone/internal/score"
)

// Components are the long-lived collaborators of an Analyzer. Recognizer,
// Normalizer and Resolver are required; Summarizer and Cache may be nil.
type Components struct {
	Recognizer ner.Recognizer
	Normalizer *datenorm.Normalizer
	Resolver   *gazetteer.Resolver
	Summarizer *llm.Summarizer
	Cache      cache.Cache
}

// Options tune a single Analyzer
type Options struct {
	Scope         model.NormalizeScope
	ReferenceTime time.Time // Fixed base for relative dates; zero = now
	MaxTextLength int       // In runes; 0 = unlimited
	HTMLInput     bool      // Reduce input to visible text first
	CacheTTL      time.Duration
	Now           func() time.Time
}

// Analyzer runs recognition, normalization, aggregation and scoring for one post
type Analyzer struct {
	recognizer ner.Recognizer
	contacts   *extract.ContactExtractor
	dates      *datenorm.Normalizer
	places     *gazetteer.Resolver
	aggregator *aggregate.Aggregator
	scorer     *score.Scorer
	summarizer *llm.Summarizer
	cache      cache.Cache
	opts       Options
}

// NewAnalyzer wires an analyzer from its components
func NewAnalyzer(c Components, opts Options) *Analyzer {
	if opts.Scope == "" {
		opts.Scope = model.ScopeAll
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Analyzer{
		recognizer: c.Recognizer,
		contacts:   extract.NewContactExtractor(),
		dates:      c.Normalizer,
		places:     c.Resolver,
		aggregator: aggregate.NewAggregator(),
		scorer:     score.NewScorer(),
		summarizer: c.Summarizer,
		cache:      c.Cache,
		opts:       opts,
	}
}

// Analyze labels text with the configured recognizer and builds a report
func (a *Analyzer) Analyze(ctx context.Context, text string) (*model.Report, error) {
	return a.AnalyzeWith(ctx, text, a.recognizer)
}

// AnalyzeWith builds a report using rec instead of the configured recognizer
// (e.g. a StaticRecognizer holding entities supplied by the caller).
// Empty text yields an empty result without calling rec.
func (a *Analyzer) AnalyzeWith(ctx context.Context, text string, rec ner.Recognizer) (*model.Report, error) {
	if a.opts.HTMLInput {
		visible, err := extract.VisibleText(text)
		if err != nil {
			return nil, fmt.Errorf("extract visible text: %w", err)
		}
		text = visible
	}
	if a.opts.MaxTextLength > 0 && utf8.RuneCountInString(text) > a.opts.MaxTextLength {
		return nil, fmt.Errorf("%w: %d characters (max %d)", ErrTextTooLong, utf8.RuneCountInString(text), a.opts.MaxTextLength)
	}

	now := a.opts.Now()
	ref := a.opts.ReferenceTime
	if ref.IsZero() {
		ref = now
	}

	digest := sha256.Sum256([]byte(text))
	report := &model.Report{
		ID:            uuid.NewString(),
		TextSHA256:    hex.EncodeToString(digest[:]),
		AnalyzedAt:    now.UTC(),
		ReferenceTime: ref.In(a.dates.Location()),
		Result:        make(model.Result),
	}

	if strings.TrimSpace(text) == "" {
		report.Score = a.scorer.Calculate(report.Result)
		return report, nil
	}

	if rec == nil {
		return nil, &RecognitionError{Recognizer: "none", Reason: "no recognizer configured"}
	}
	entities, err := rec.Recognize(ctx, text)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &RecognitionError{Recognizer: rec.Name(), Reason: "recognize", Err: err}
	}

	report.Entities = entities
	report.Result = a.aggregator.Build(aggregate.Input{
		Entities: entities,
		Contacts: a.contacts.ExtractAll(text),
		Dates:    a.dates.NormalizeAll(aggregate.DateSpans(entities, a.opts.Scope), ref),
		Places:   a.places.ResolveAll(aggregate.PlaceSpans(entities, a.opts.Scope)),
	})

	// Scores are final before the explanation is requested
	report.Score = a.scorer.Calculate(report.Result)

	report.LLM = a.explain(ctx, *report)
	return report, nil
}

// explain returns the optional explanation, consulting the cache first
func (a *Analyzer) explain(ctx context.Context, report model.Report) *model.LLMSummary {
	if !a.summarizer.IsEnabled() {
		return nil
	}

	key, keyErr := a.explanationKey(report)
	if keyErr == nil && a.cache != nil {
		if data, found := a.cache.Get(key); found {
			var cached model.LLMSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.Cached = true
				return &cached
			}
		}
	}

	summary, err := a.summarizer.GenerateSummary(ctx, report)
	if err != nil {
		logger.Warn("explanation failed", "report", report.ID, "error", err)
		return nil
	}

	if summary != nil && summary.Detail != "" && keyErr == nil && a.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := a.cache.Set(key, data, a.opts.CacheTTL); err != nil {
				logger.Warn("explanation cache write failed", "error", err)
			}
		}
	}
	return summary
}

// explanationKey identifies an explanation by provider, result and scores
func (a *Analyzer) explanationKey(report model.Report) (string, error) {
	payload, err := json.Marshal(struct {
		Provider string       `json:"provider"`
		Result   model.Result `json:"result"`
		Direct   float64      `json:"direct"`
		Indirect int          `json:"indirect"`
	}{a.summarizer.ProviderName(), report.Result, report.Score.Direct, report.Score.Indirect})
	if err != nil {
		return "", err
	}
	return cache.CacheKey(payload), nil
}
