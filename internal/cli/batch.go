package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/decklint/decklint/internal/model"
	"github.com/decklint/decklint/internal/pipeline"
	"github.com/decklint/decklint/internal/report"
	"github.com/decklint/decklint/internal/worker"
)

var (
	batchWorkers int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list-file>",
	Short: "Analyze multiple decks in parallel",
	Long: `Batch analyzes multiple presentations concurrently:
- Read deck paths from a directory or a list file (one path per line)
- Analyze decks in parallel with a configurable worker count
- Write one JSON report per deck into the output directory

Example:
  decklint batch ./decks
  decklint batch decks.txt --workers 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "number of concurrent deck analyses (default from config: 4)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./decklint-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchWorkers > 0 {
		cfg.BatchWorkers = batchWorkers
	}
	// The oracle stays off in batch mode unless the config file
	// enables it; per-deck runs control it via analyze flags.
	if cfg.Oracle.Provider != "" {
		if err := resolveOracleEnv(cfg); err != nil {
			return err
		}
	}

	paths, err := collectDecks(input)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no decks found in %s", input)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Analyzing %d decks with %d workers\n", len(paths), cfg.BatchWorkers)

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.BatchWorkers)
	results := processor.ProcessPaths(ctx, paths)

	var failed, flagged int
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Error)
			continue
		}

		reportPath := filepath.Join(outputDir, reportName(r.Path))
		if err := writeJSONReport(r.Report, cfg, reportPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, err)
			continue
		}

		kept := report.Filter(r.Report.Findings, cfg.Check.MinConfidence)
		if len(kept) > 0 {
			flagged++
			fmt.Fprintf(os.Stderr, "! %s: %d inconsistencies → %s\n", r.Path, len(kept), reportPath)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s: clean\n", r.Path)
		}
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d decks, %d flagged, %d failed\n", len(results), flagged, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d decks failed", failed, len(results))
	}
	if flagged > 0 {
		return ErrFindingsDetected
	}
	return nil
}

// collectDecks resolves the batch input into deck paths
func collectDecks(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		return worker.ReadPathsFromFile(input)
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pptx", ".html", ".htm", ".txt", ".md", ".json":
			paths = append(paths, filepath.Join(input, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// reportName derives the per-deck report file name
func reportName(deckPath string) string {
	base := filepath.Base(deckPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".report.json"
}

// writeJSONReport writes one deck's report as JSON
func writeJSONReport(rep *model.Report, cfg *model.Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = f.Close() }()

	outCfg := cfg.Output
	outCfg.Format = "json"
	return report.Render(rep, outCfg, cfg.Check.MinConfidence, f)
}
