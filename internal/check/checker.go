package check

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/decklint/decklint/internal/llm"
	"github.com/decklint/decklint/internal/model"
)

// Checker decides whether extracted slide content constitutes genuine
// inconsistencies. It runs two passes: a deterministic rule-based pass
// over numeric assertions, then an optional oracle-assisted pass over
// slide pairs. Pass A findings always precede Pass B findings, and
// within each pass findings follow the group/pair iteration order;
// downstream renderers rely on that ordering.
type Checker struct {
	cfg         model.CheckConfig
	oracle      llm.Judge // nil disables the semantic pass
	concurrency int
	timeout     time.Duration
}

// NewChecker creates a checker from the validated configuration. A nil
// judge limits analysis to the rule-based pass.
func NewChecker(cfg *model.Config, oracle llm.Judge) *Checker {
	concurrency := cfg.Oracle.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Checker{
		cfg:         cfg.Check,
		oracle:      oracle,
		concurrency: concurrency,
		timeout:     cfg.Oracle.Timeout,
	}
}

// Check analyzes the ordered slide records of one presentation and
// returns the findings. With fewer than two slides consistency is
// vacuously true and the result is empty; this is not an error.
func (c *Checker) Check(ctx context.Context, slides []model.SlideContent) []model.Finding {
	if len(slides) < 2 {
		return nil
	}

	findings := c.checkNumeric(slides)
	findings = append(findings, c.checkMath(slides)...)

	if c.oracle != nil {
		findings = append(findings, c.checkSemantic(ctx, slides)...)
	}

	return findings
}

// groupKey buckets assertions for cross-slide comparison: values only
// conflict when both the unit class and the semantic context match.
type groupKey struct {
	unit    model.UnitClass
	context string
}

// checkNumeric detects multi-value disagreement within each
// (unit class, context) group across slides. A group that disagrees is
// reported as one finding spanning all contributing slides, not as
// pairwise findings.
func (c *Checker) checkNumeric(slides []model.SlideContent) []model.Finding {
	groups := make(map[groupKey][]model.NumericAssertion)
	var order []groupKey // first-appearance order, preserving slide order

	for _, slide := range slides {
		for _, a := range slide.Assertions {
			key := groupKey{unit: a.Unit, context: a.Context}
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], a)
		}
	}

	var findings []model.Finding
	for _, key := range order {
		entries := groups[key]
		if len(entries) < 2 {
			continue
		}

		values := make(map[float64]bool)
		slideSet := make(map[int]bool)
		for _, a := range entries {
			values[a.Value] = true
			slideSet[a.Slide] = true
		}

		// A finding must span at least two distinct slides; value
		// spread inside a single slide (e.g. an itemized breakdown)
		// is handled by the mathematical check instead.
		if len(values) < 2 || len(slideSet) < 2 {
			continue
		}

		evidence := make([]string, len(entries))
		for i, a := range entries {
			evidence[i] = fmt.Sprintf("Slide %d: %s", a.Slide, a.SourceText)
		}

		findingType := model.FindingNumericalConflict
		description := fmt.Sprintf("Conflicting %s values found across slides", key.context)
		recommendation := fmt.Sprintf("Standardize %s values across all slides for consistency", key.context)
		if key.unit == model.UnitMultiplier {
			findingType = model.FindingPerformanceConflict
			description = "Conflicting performance improvement claims found"
			recommendation = "Align performance improvement claims across all slides"
		}

		findings = append(findings, model.Finding{
			Type:           findingType,
			Slides:         sortedSlides(slideSet),
			Description:    description,
			Confidence:     c.cfg.Confidence[findingType],
			Evidence:       evidence,
			Recommendation: recommendation,
			Severity:       model.SeverityOf(findingType),
		})
	}

	return findings
}

// sortedSlides flattens a slide set into a sorted unique list
func sortedSlides(set map[int]bool) []int {
	slides := make([]int, 0, len(set))
	for n := range set {
		slides = append(slides, n)
	}
	sort.Ints(slides)
	return slides
}
