package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Renderer writes reports as JSON, Markdown or a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// RenderLLMMarkdown writes an already rendered explanation document
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	if markdown == "" {
		return nil
	}
	return writeFile(path, []byte(markdown))
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	b.WriteString("# SNS Post Risk Report\n\n")
	fmt.Fprintf(&b, "- **Analysis ID:** %s\n", report.ID)
	fmt.Fprintf(&b, "- **Analyzed At:** %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Reference Time:** %s\n", report.ReferenceTime.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "- **Text SHA-256:** `%s`\n\n", report.TextSHA256)

	b.WriteString("## Scores\n\n")
	b.WriteString("| Score | Percent |\n|---|---|\n")
	fmt.Fprintf(&b, "| Direct identifiability | %.0f%% |\n", report.Score.Direct)
	fmt.Fprintf(&b, "| Indirect identifiability | %d%% |\n\n", report.Score.Indirect)

	b.WriteString("## Detected Information\n\n")
	if len(report.Result) == 0 {
		b.WriteString("_Nothing detected._\n\n")
	} else {
		b.WriteString("| Category | Count | Values |\n|---|---|---|\n")
		for _, category := range report.Result.Categories() {
			bucket := report.Result[category]
			fmt.Fprintf(&b, "| %s | %d | %s |\n", category, bucket.Count(), escapeCell(strings.Join(bucket.Strings(), ", ")))
		}
		b.WriteString("\n")
	}

	if len(report.Score.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, s := range report.Score.Signals {
			fmt.Fprintf(&b, "- **[%s]** %s\n", strings.ToUpper(string(s.Severity)), s.Description)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled && report.LLM.Detail != "" {
		b.WriteString("## Explanation\n\n")
		b.WriteString(report.LLM.Detail)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Scores are computed from detected identifiers only. The explanation is generated separately and never changes them._\n")
	}

	return b.String()
}

// RenderSummary prints a short summary for the terminal
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "\nDirect: %.0f%%  Indirect: %d%%\n", report.Score.Direct, report.Score.Indirect)
	for _, category := range report.Result.Categories() {
		fmt.Fprintf(w, "  %-13s %d\n", category, report.Result.Count(category))
	}
	if report.LLM != nil && report.LLM.Detail != "" {
		fmt.Fprintf(w, "\n%s\n", report.LLM.Detail)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
