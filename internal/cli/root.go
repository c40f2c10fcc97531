package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/decklint/decklint/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// ErrFindingsDetected signals a clean run that found inconsistencies;
// the caller maps it to a non-zero exit code without an error message.
var ErrFindingsDetected = errors.New("inconsistencies detected")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "decklint",
	Short: "Decklint - slide deck consistency inspector",
	Long: `Decklint analyzes multi-slide presentations and surfaces places where
slides disagree with each other about facts: numbers, performance
claims, or timelines.

The rule-based pass extracts quantitative assertions from every slide,
normalizes them into comparable units, and flags contexts that carry
conflicting values across slides. An optional language-model oracle
additionally judges slide pairs for open-ended semantic contradictions.

Decklint surfaces conflicts; it does not verify facts against outside
sources.`,
	SilenceErrors: true,
	SilenceUsage:  true,
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
		fmt.Println("decklint v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.decklint/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.decklint")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DECKLINT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the immutable configuration: defaults, then config
// file and environment, validated before any analysis begins
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

// resolveOracleEnv fills provider credentials from the conventional
// environment variables
func resolveOracleEnv(cfg *model.Config) error {
	switch cfg.Oracle.Provider {
	case "openai":
		if cfg.Oracle.APIKey == "" {
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.Oracle.APIKey == "" {
			cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" && cfg.Oracle.BaseURL == "" {
			cfg.Oracle.BaseURL = base
		}
	}
	return nil
}
