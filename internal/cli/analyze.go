package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/decklint/decklint/internal/pipeline"
	"github.com/decklint/decklint/internal/report"
)

var (
	outPath           string
	outFormat         string
	minConfidence     float64
	showAll           bool
	analyzeTimeout    time.Duration
	oracleProvider    string
	oracleModel       string
	oracleEnabled     bool
	oracleConcurrency int
	noCache           bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <deck>",
	Short: "Analyze a presentation for cross-slide inconsistencies",
	Long: `Analyze inspects a slide deck to:
- Extract numeric assertions (currency, time, percentages, multipliers, ratios)
- Extract keyword-flagged claim sentences
- Detect conflicting values for the same semantic context across slides
- Verify stated totals against itemized breakdowns on each slide
- Optionally consult a language-model oracle for semantic contradictions

Supported inputs: .pptx, .html, .txt/.md ("---" separated), .json, or a
directory of per-slide files.

Example:
  decklint analyze deck.pptx
  decklint analyze deck.pptx --format json --output report.json
  decklint analyze deck.pptx --oracle --oracle-provider openai --oracle-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVarP(&outPath, "output", "o", "", "output path (default: stdout)")
	analyzeCmd.Flags().StringVarP(&outFormat, "format", "f", "console", "output format (console, json, csv, txt)")
	analyzeCmd.Flags().Float64Var(&minConfidence, "min-confidence", -1, "suppress findings below this confidence (default from config: 0.7)")
	analyzeCmd.Flags().BoolVar(&showAll, "all", false, "include findings below the confidence threshold")

	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")

	// Oracle flags
	analyzeCmd.Flags().BoolVar(&oracleEnabled, "oracle", false, "enable the language-model oracle pass")
	analyzeCmd.Flags().StringVar(&oracleProvider, "oracle-provider", "openai", "oracle provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&oracleModel, "oracle-model", "", "oracle model name")
	analyzeCmd.Flags().IntVar(&oracleConcurrency, "oracle-concurrency", 0, "max outstanding oracle calls (default from config: 3)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable oracle verdict caching")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	deck := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cfg.Output.Format = outFormat
	cfg.Output.ShowAll = showAll
	if minConfidence >= 0 {
		cfg.Check.MinConfidence = minConfidence
	}

	if oracleEnabled {
		cfg.Oracle.Provider = oracleProvider
		if oracleModel != "" {
			cfg.Oracle.Model = oracleModel
		}
		if oracleConcurrency > 0 {
			cfg.Oracle.Concurrency = oracleConcurrency
		}
		if noCache {
			cfg.Oracle.CacheVerdicts = false
		}
		if err := resolveOracleEnv(cfg); err != nil {
			return err
		}
	} else {
		cfg.Oracle.Provider = ""
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", deck)
		if cfg.Oracle.Provider != "" {
			fmt.Fprintf(os.Stderr, "Oracle: %s (%d workers, %v timeout)\n",
				cfg.Oracle.Provider, cfg.Oracle.Concurrency, cfg.Oracle.Timeout)
		}
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	rep, err := p.AnalyzeFile(ctx, deck)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := report.Render(rep, cfg.Output, cfg.Check.MinConfidence, out); err != nil {
		return err
	}
	if outPath != "" && verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", outPath)
	}

	if len(report.Filter(rep.Findings, cfg.Check.MinConfidence)) > 0 {
		return ErrFindingsDetected
	}
	return nil
}

// openOutput returns the report writer: stdout, or the given file
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
