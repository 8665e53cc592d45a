package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
	"github.com/simpleray/SNSCheckerBack-phone/internal/pipeline"
)

var (
	outJSON   string
	outMD     string
	printJSON bool
	timeout   time.Duration
	noFooter  bool
	scope     string
	refTime   string
	htmlInput bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text|-]",
	Short: "Analyze a single post and report its leakage risk",
	Long: `Analyze recognizes names, ages, dates, contacts and places in one post,
groups them by category and computes the direct and indirect percentages.

The post is read from the argument, or from stdin when the argument is "-"
or omitted.

Example:
  snschecker analyze "明日、渋谷駅で田中さん(25歳)と待ち合わせ 090-1234-5678"
  echo "連絡は080-1234-5678まで" | snschecker analyze --print-json
  snschecker analyze post.txt --json report.json --md report.md --llm-provider openai`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&printJSON, "print-json", false, "print the JSON report to stdout instead of a summary")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&scope, "scope", "", "normalization scope: all or first (default from config)")
	analyzeCmd.Flags().StringVar(&refTime, "ref-time", "", "reference time for relative dates, RFC 3339 (default now)")
	analyzeCmd.Flags().BoolVar(&htmlInput, "html", false, "treat input as HTML (e.g. an embedded post)")

	addLLMFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalysisFlags(cmd, cfg)
	applyLLMFlags(cmd, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Analyzing %d characters...\n", len([]rune(text)))
	}

	report, err := p.Analyze(ctx, text)
	if err != nil {
		if errors.Is(err, pipeline.ErrRecognition) {
			return fmt.Errorf("analysis failed (recognizer unavailable): %w", err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Detected %d categories\n", len(report.Result))
		fmt.Fprintf(os.Stderr, "✓ Direct %.0f%% / Indirect %d%%\n", report.Score.Direct, report.Score.Indirect)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated explanation using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if printJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return p.RenderReport(io.Discard, report, outJSON, outMD, verbose)
	}

	if err := p.RenderReport(cmd.OutOrStdout(), report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// applyAnalysisFlags overrides cfg with explicitly set analysis flags
func applyAnalysisFlags(cmd *cobra.Command, cfg *model.Config) {
	if scope != "" {
		cfg.Analysis.NormalizeScope = model.NormalizeScope(scope)
	}
	if refTime != "" {
		cfg.Analysis.ReferenceTime = refTime
	}
	if cmd.Flags().Changed("html") {
		cfg.Analysis.HTMLInput = htmlInput
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
}

// readInput returns the post text from args or stdin. An argument naming an
// existing file is read as that file.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	return args[0], nil
}
