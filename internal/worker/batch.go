package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/decklint/decklint/internal/model"
)

// Analyzer analyzes a single deck file. Satisfied by
// pipeline.Pipeline.
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.Report, error)
}

// DeckJob analyzes one deck
type DeckJob struct {
	Path     string
	Analyzer Analyzer
}

// Execute runs the analysis for one deck
func (j *DeckJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	return &DeckResult{Path: j.Path, Report: report, Error: err}
}

// DeckResult is the outcome of one deck analysis
type DeckResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the analysis error, if any
func (r *DeckResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple decks concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessPaths analyzes the given deck paths concurrently. Results
// come back sorted by path so output is stable regardless of
// completion order.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DeckResult {
	if len(paths) == 0 {
		return []*DeckResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&DeckJob{Path: path, Analyzer: b.analyzer})
	}

	results := pool.Wait()

	deckResults := make([]*DeckResult, len(results))
	for i, r := range results {
		deckResults[i] = r.(*DeckResult)
	}
	sort.Slice(deckResults, func(i, j int) bool {
		return deckResults[i].Path < deckResults[j].Path
	})

	return deckResults
}

// ReadPathsFromFile reads deck paths from a list file, one per line.
// Empty lines and #-comments are skipped, duplicates removed.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan list file: %w", err)
	}

	return paths, nil
}
