package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Version is overridden at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "0.1.0"

const envPrefix = "SNSCHECKER"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "snschecker",
	Short: "SNS Checker - personal information leakage risk for short posts",
	Long: `SNS Checker estimates how much personal information a short social-media
post gives away.

Detected names, ages, dates, contact details and places are grouped into
categories and turned into two percentages:
  direct   - how directly the post identifies its author
  indirect - how much the quasi-identifiers narrow the author down

An optional LLM explanation can be generated; it never changes the scores.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("logging.level")
		if verbose {
			level = "debug"
		}
		logger.Init(level, viper.GetString("logging.format"))
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "snschecker v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.snschecker/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".snschecker"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SNSCHECKER_* (llm.api_key -> SNSCHECKER_LLM_API_KEY)
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

// setDefaults registers every leaf of cfg as a viper default so environment
// variables can override keys that no config file mentions
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setLeaves(v, "", tree)

	// Keys the YAML tree omits (yaml:"-" or empty omitempty values)
	for _, key := range []string{"llm.api_key", "llm.base_url", "llm.http_proxy", "llm.https_proxy", "cache.redis_url"} {
		v.SetDefault(key, "")
	}
	return nil
}

func setLeaves(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			setLeaves(v, path, sub)
			continue
		}
		v.SetDefault(path, value)
	}
}

// loadConfig merges defaults, config file, environment and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyProviderEnv(cfg)
	return cfg, nil
}

// applyProviderEnv fills provider credentials from the conventional
// environment variables when the config does not set them
func applyProviderEnv(cfg *model.Config) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}

// addLLMFlags registers the explanation flags shared by analyze, batch and serve
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().String("llm-provider", "", "LLM provider for explanations (openai, anthropic, ollama); empty disables")
	cmd.Flags().String("llm-model", "", "LLM model name (provider default if empty)")
	cmd.Flags().Bool("no-redaction", false, "do not mask detected identifiers in prompts and explanations")
}

// applyLLMFlags overrides cfg with explicitly set explanation flags
func applyLLMFlags(cmd *cobra.Command, cfg *model.Config) {
	if f := cmd.Flags().Lookup("llm-provider"); f != nil && f.Changed {
		cfg.LLM.Provider = f.Value.String()
	}
	if f := cmd.Flags().Lookup("llm-model"); f != nil && f.Changed {
		cfg.LLM.Model = f.Value.String()
	}
	if noRedaction, err := cmd.Flags().GetBool("no-redaction"); err == nil && noRedaction {
		cfg.LLM.StrictRedaction = false
	}
	applyProviderEnv(cfg)
}
