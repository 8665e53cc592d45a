package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage SNS Checker configuration",
	Long: `Manage SNS Checker configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (SNSCHECKER_*)
3. Config file (~/.snschecker/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file and environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		fmt.Fprintln(out, "  Current Configuration")
		fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		fmt.Fprintln(out)
		fmt.Fprintln(out, string(yamlData))
		fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		fmt.Fprintln(out)
		if cfg.LLM.APIKey != "" {
			fmt.Fprintln(out, "LLM API key: set (hidden)")
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, "Configuration hierarchy (highest to lowest priority):")
		fmt.Fprintln(out, "  1. CLI flags")
		fmt.Fprintln(out, "  2. Environment variables (SNSCHECKER_*, OPENAI_API_KEY, ANTHROPIC_API_KEY, OLLAMA_BASE_URL)")
		fmt.Fprintln(out, "  3. Config file (~/.snschecker/config.yaml)")
		fmt.Fprintln(out, "  4. Defaults")
		fmt.Fprintln(out)

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.snschecker/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".snschecker", "config.yaml")
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(out, "\nTo view the configuration:\n")
		fmt.Fprintf(out, "  snschecker config show\n")
		fmt.Fprintf(out, "\nTo customize, edit the file with your preferred editor:\n")
		fmt.Fprintf(out, "  $EDITOR %s\n\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// writeDefaultConfig writes the commented default configuration to path.
// An existing file is never overwritten.
func writeDefaultConfig(path string) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'snschecker config show' to view it, or delete it first to recreate", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# SNS Checker Configuration File\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (SNSCHECKER_*, e.g. SNSCHECKER_LLM_PROVIDER=openai)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n\n")
	printf("%s", yamlData)
	printf("\n# API Keys (recommended to use environment variables instead):\n")
	printf("#   export OPENAI_API_KEY=sk-...\n")
	printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
	printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")
	return err
}
