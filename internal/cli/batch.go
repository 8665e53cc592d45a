package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/simpleray/SNSCheckerBack-phone/internal/pipeline"
	"github.com/simpleray/SNSCheckerBack-phone/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many posts from a file in parallel",
	Long: `Batch analyzes posts concurrently:
- Read posts from input file: one per line (# comments and blank lines
  skipped), an X archive tweets.js, or saved embed HTML
- Analyze them in parallel with configurable worker count
- Throttle explanation requests per provider
- Generate individual reports for each post, numbered in input order

Example:
  snschecker batch posts.txt
  snschecker batch posts.txt --concurrency 8 --output-dir ./reports
  snschecker batch posts.txt --llm-provider ollama --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./snschecker-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&scope, "scope", "", "normalization scope: all or first (default from config)")
	batchCmd.Flags().StringVar(&refTime, "ref-time", "", "reference time for relative dates, RFC 3339 (default now)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	addLLMFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalysisFlags(cmd, cfg)
	applyLLMFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  SNS Checker Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s (%.1f req/s)\n", cfg.LLM.Provider, cfg.RateLimiting.RequestsPerSecond)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	if provider := p.ProviderName(); provider != "" {
		limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
		processor.WithLimiter(limiter, provider)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing posts with %d workers...\n\n", cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		name := fmt.Sprintf("post-%04d", result.Index+1)
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s %q: %v\n", name, preview(result.Text), result.Error)
			continue
		}

		jsonPath := filepath.Join(outputDir, name+".json")
		mdPath := filepath.Join(outputDir, name+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", name, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", name, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s %q (direct %.0f%%, indirect %d%%)\n",
			name, preview(result.Text), result.Report.Score.Direct, result.Report.Score.Indirect)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d posts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d posts failed", failureCount, len(results))
	}
	return nil
}

// preview shortens a post for progress lines
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > 20 {
		return string(runes[:20]) + "…"
	}
	return text
}
