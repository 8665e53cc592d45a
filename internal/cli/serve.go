package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simpleray/SNSCheckerBack-phone/internal/pipeline"
	"github.com/simpleray/SNSCheckerBack-phone/internal/server"
)

var (
	serveAddr    string
	serveOrigins string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the analyzer over HTTP:
  GET  /          service name and version
  GET  /health    liveness
  GET  /version   version
  POST /analyze   {"text": "...", "entities": [...]} -> percentages, categories, explanation

Example:
  snschecker serve --addr :8000
  snschecker serve --origins https://x.com,http://localhost:5173 --llm-provider openai`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	serveCmd.Flags().StringVar(&serveOrigins, "origins", "", "comma-separated CORS origins (default from config)")

	addLLMFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyLLMFlags(cmd, cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveOrigins != "" {
		cfg.Server.AllowedOrigins = splitList(serveOrigins)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(p.Analyzer(), cfg.Server, cfg.Analysis.MaxTextLength, server.Info{Version: Version})
	return srv.ListenAndServe(ctx)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
