package check

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/decklint/decklint/internal/llm"
	"github.com/decklint/decklint/internal/model"
)

// slidePair is one unordered comparison (i < j by slide position)
type slidePair struct {
	a, b model.SlideContent
}

// checkSemantic delegates pairwise text comparison to the external
// oracle. Calls run concurrently under the configured cap; results are
// collected per pair and emitted in pair-iteration order, never in
// arrival order. A failed or unparseable call becomes a low-confidence
// finding for that pair and does not abort the remaining pairs.
func (c *Checker) checkSemantic(ctx context.Context, slides []model.SlideContent) []model.Finding {
	var pairs []slidePair
	for i := 0; i < len(slides); i++ {
		for j := i + 1; j < len(slides); j++ {
			pairs = append(pairs, slidePair{a: slides[i], b: slides[j]})
		}
	}

	results := make([]*model.Finding, len(pairs))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, p := range pairs {
		wg.Add(1)
		go func(idx int, pair slidePair) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				// run aborted: completed findings are still returned
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			results[idx] = c.judgePair(ctx, pair)
		}(i, p)
	}

	wg.Wait()

	var findings []model.Finding
	for _, f := range results {
		if f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// judgePair submits one slide pair to the oracle and interprets the
// verdict
func (c *Checker) judgePair(ctx context.Context, pair slidePair) *model.Finding {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	verdict, err := c.oracle.Judge(callCtx, pair.a.Text, pair.b.Text)
	if err != nil {
		if ctx.Err() != nil {
			return nil // caller aborted, not oracle misbehavior
		}
		return c.oracleFailure(pair, err)
	}

	if verdict.Consistent {
		return nil
	}

	reason := verdict.Reason
	if reason == "" {
		reason = "Possible contradiction"
	}

	return &model.Finding{
		Type:           model.FindingSemanticConflict,
		Slides:         pairSlides(pair),
		Description:    reason,
		Confidence:     c.cfg.Confidence[model.FindingSemanticConflict],
		Evidence:       []string{pair.a.Text, pair.b.Text},
		Recommendation: "Review both slides and reconcile the contradicting statements",
		Severity:       model.SeverityOf(model.FindingSemanticConflict),
	}
}

// oracleFailure converts a failed or unparseable oracle call into a
// visible low-confidence finding instead of silently dropping the pair
func (c *Checker) oracleFailure(pair slidePair, err error) *model.Finding {
	var parseErr *llm.ParseError
	description := fmt.Sprintf("Oracle call failed: %v", err)
	if errors.As(err, &parseErr) {
		description = fmt.Sprintf("Raw oracle output: %s", parseErr.Raw)
	}

	return &model.Finding{
		Type:           model.FindingUnparsedOracle,
		Slides:         pairSlides(pair),
		Description:    description,
		Confidence:     c.cfg.Confidence[model.FindingUnparsedOracle],
		Evidence:       []string{pair.a.Text, pair.b.Text},
		Recommendation: "Re-run the analysis or inspect the oracle configuration",
		Severity:       model.SeverityOf(model.FindingUnparsedOracle),
	}
}

func pairSlides(pair slidePair) []int {
	if pair.a.Slide <= pair.b.Slide {
		return []int{pair.a.Slide, pair.b.Slide}
	}
	return []int{pair.b.Slide, pair.a.Slide}
}
