package worker

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/simpleray/SNSCheckerBack-phone/internal/extract/adapters"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Analyzer analyzes a single post
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*model.Report, error)
}

// AnalyzeJob analyzes one post of a batch
type AnalyzeJob struct {
	Index    int
	Text     string
	Analyzer Analyzer
	Limiter  *Limiter // Optional; applied per LimitKey before analysis
	LimitKey string
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil && j.LimitKey != "" {
		if err := j.Limiter.Wait(ctx, j.LimitKey); err != nil {
			return &AnalyzeResult{Index: j.Index, Text: j.Text, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	report, err := j.Analyzer.Analyze(ctx, j.Text)
	return &AnalyzeResult{
		Index:  j.Index,
		Text:   j.Text,
		Report: report,
		Error:  err,
	}
}

// AnalyzeResult represents the result of an analysis job
type AnalyzeResult struct {
	Index  int
	Text   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many posts concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
	limitKey    string
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// WithLimiter throttles every job under key (e.g. the explanation provider)
func (b *BatchProcessor) WithLimiter(limiter *Limiter, key string) *BatchProcessor {
	b.limiter = limiter
	b.limitKey = key
	return b
}

// ProcessPosts analyzes posts concurrently. Results are returned in input order.
func (b *BatchProcessor) ProcessPosts(ctx context.Context, posts []string) []*AnalyzeResult {
	if len(posts) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, text := range posts {
			job := &AnalyzeJob{
				Index:    i,
				Text:     text,
				Analyzer: b.analyzer,
				Limiter:  b.limiter,
				LimitKey: b.limitKey,
			}
			if !pool.Submit(job) {
				break
			}
		}
		pool.Close()
	}()

	results := make([]*AnalyzeResult, 0, len(posts))
	for result := range pool.Results() {
		results = append(results, result.(*AnalyzeResult))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	// Posts never run because ctx ended still get a result
	if len(results) < len(posts) {
		done := make(map[int]bool, len(results))
		for _, r := range results {
			done[r.Index] = true
		}
		for i, text := range posts {
			if !done[i] {
				results = append(results, &AnalyzeResult{Index: i, Text: text, Error: ctx.Err()})
			}
		}
		sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	}

	return results
}

// ProcessFile reads posts from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	posts, err := ReadPostsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}

	return b.ProcessPosts(ctx, posts), nil
}

// ReadPostsFromFile reads posts from a file. Plain files hold one post per
// line (blank lines and # comments skipped); X archive exports and saved
// embed HTML are recognized too. Repeated posts are analyzed once.
func ReadPostsFromFile(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	posts, err := adapters.NewRegistry().Posts(filePath, data)
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}
	return posts, nil
}
