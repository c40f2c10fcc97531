package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/decklint/decklint/internal/cache"
	"github.com/decklint/decklint/internal/check"
	"github.com/decklint/decklint/internal/extract"
	"github.com/decklint/decklint/internal/ingest"
	"github.com/decklint/decklint/internal/llm"
	"github.com/decklint/decklint/internal/model"
)

// Pipeline orchestrates the complete analysis: ingest, per-slide
// extraction, consistency checking. Every run builds fresh slide
// records and findings; nothing is shared across runs except the
// optional oracle verdict cache.
type Pipeline struct {
	patterns *extract.PatternExtractor
	claims   *extract.ClaimExtractor
	checker  *check.Checker
	config   *model.Config
}

// NewPipeline creates a pipeline from the given configuration.
// Configuration problems are fatal here, before any analysis begins.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	patterns, err := extract.NewPatternExtractor(cfg.Extract)
	if err != nil {
		return nil, fmt.Errorf("pattern extractor: %w", err)
	}

	judge, err := llm.NewJudge(llm.ConfigFromModel(cfg.Oracle))
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	if judge != nil {
		judge = llm.RateLimited(judge, cfg.Oracle.RatePerSecond, cfg.Oracle.Concurrency)
		if cfg.Oracle.CacheVerdicts {
			store := cache.NewMemoryCache(1*time.Hour, 10*time.Minute)
			judge = llm.Cached(judge, store, 1*time.Hour)
		}
	}

	return &Pipeline{
		patterns: patterns,
		claims:   extract.NewClaimExtractor(cfg.Extract),
		checker:  check.NewChecker(cfg, judge),
		config:   cfg,
	}, nil
}

// ExtractSlides runs both extractors over the raw slide texts and
// produces the per-slide content records the checker operates on
func (p *Pipeline) ExtractSlides(slides []model.Slide) []model.SlideContent {
	records := make([]model.SlideContent, 0, len(slides))
	for _, s := range slides {
		records = append(records, model.SlideContent{
			Slide:      s.Number,
			Text:       s.Text,
			Assertions: p.patterns.Extract(s.Text, s.Number),
			Claims:     p.claims.Extract(s.Text, s.Number),
		})
	}
	return records
}

// Analyze checks the given slides and assembles the report
func (p *Pipeline) Analyze(ctx context.Context, file string, slides []model.Slide) *model.Report {
	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Extracting content from %d slides\n", len(slides))
	}

	records := p.ExtractSlides(slides)
	findings := p.checker.Check(ctx, records)

	return &model.Report{
		File:        file,
		GeneratedAt: time.Now().UTC(),
		SlideCount:  len(slides),
		Total:       len(findings),
		Findings:    findings,
	}
}

// AnalyzeFile ingests a deck from disk and analyzes it
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	slides, err := ingest.Load(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d slides from %s\n", len(slides), path)
	}

	return p.Analyze(ctx, path, slides), nil
}
