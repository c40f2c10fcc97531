package check

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/decklint/decklint/internal/llm"
	"github.com/decklint/decklint/internal/model"
)

// fakeJudge scripts verdicts per text pair and records call counts
type fakeJudge struct {
	mu       sync.Mutex
	calls    int32
	verdicts map[string]*llm.Verdict
	errors   map[string]error
}

func pairID(a, b string) string { return a + "|" + b }

func (f *fakeJudge) Name() string { return "fake" }

func (f *fakeJudge) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeJudge) Judge(ctx context.Context, textA, textB string) (*llm.Verdict, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()

	id := pairID(textA, textB)
	if err, ok := f.errors[id]; ok {
		return nil, err
	}
	if v, ok := f.verdicts[id]; ok {
		return v, nil
	}
	return &llm.Verdict{Consistent: true}, nil
}

func newTestChecker(oracle llm.Judge) *Checker {
	return NewChecker(model.DefaultConfig(), oracle)
}

func slide(n int, text string, assertions ...model.NumericAssertion) model.SlideContent {
	return model.SlideContent{Slide: n, Text: text, Assertions: assertions}
}

func assertion(slide int, value float64, unit model.UnitClass, context, source string) model.NumericAssertion {
	return model.NumericAssertion{
		Value: value, Unit: unit, Context: context,
		SourceText: source, Slide: slide,
	}
}

func TestChecker_FewerThanTwoSlides(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(1, "2x faster", assertion(1, 2, model.UnitMultiplier, model.ContextPerformance, "2x faster")),
	}
	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("expected no findings for a single slide, got %+v", findings)
	}
	if findings := c.Check(context.Background(), nil); len(findings) != 0 {
		t.Errorf("expected no findings for an empty deck, got %+v", findings)
	}
}

func TestChecker_PerformanceConflict(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(1, "2x faster", assertion(1, 2, model.UnitMultiplier, model.ContextPerformance, "2x faster")),
		slide(2, "3x faster", assertion(2, 3, model.UnitMultiplier, model.ContextPerformance, "3x faster")),
	}

	findings := c.Check(context.Background(), slides)
	if len(findings) != 1 {
		t.Fatalf("expected exactly 1 finding, got %d: %+v", len(findings), findings)
	}

	f := findings[0]
	if f.Type != model.FindingPerformanceConflict {
		t.Errorf("type = %s, want %s", f.Type, model.FindingPerformanceConflict)
	}
	if f.Confidence != 0.90 {
		t.Errorf("confidence = %v, want 0.90", f.Confidence)
	}
	if len(f.Slides) != 2 || f.Slides[0] != 1 || f.Slides[1] != 2 {
		t.Errorf("slides = %v, want [1 2]", f.Slides)
	}
	if f.Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", f.Severity)
	}
	if len(f.Evidence) != 2 {
		t.Errorf("evidence = %v, want both source snippets", f.Evidence)
	}
}

func TestChecker_NumericalConflictCurrency(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(1, "$2M saved", assertion(1, 2_000_000, model.UnitCurrency, model.ContextCurrencySaved, "$2M")),
		slide(3, "$2.5M saved", assertion(3, 2_500_000, model.UnitCurrency, model.ContextCurrencySaved, "$2.5M")),
	}

	findings := c.Check(context.Background(), slides)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Type != model.FindingNumericalConflict {
		t.Errorf("type = %s, want %s", findings[0].Type, model.FindingNumericalConflict)
	}
	if findings[0].Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", findings[0].Confidence)
	}
}

func TestChecker_AgreementIsNotAConflict(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(1, "$2M", assertion(1, 2_000_000, model.UnitCurrency, model.ContextCurrencySaved, "$2M")),
		slide(2, "2,000,000 dollars", assertion(2, 2_000_000, model.UnitCurrency, model.ContextCurrencySaved, "2,000,000 dollars")),
	}

	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("identical normalized values must not conflict, got %+v", findings)
	}
}

func TestChecker_DifferentContextsNeverCompared(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(1, "30 mins per slide", assertion(1, 30, model.UnitMinutes, model.ContextTimeSavedPerSlide, "30 mins")),
		slide(2, "120 mins total", assertion(2, 120, model.UnitMinutes, model.ContextTotalTimeClaimed, "120 mins")),
	}

	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("different contexts must not be compared, got %+v", findings)
	}
}

func TestChecker_DifferentUnitClassesNeverCompared(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(1, "30 minutes", assertion(1, 30, model.UnitMinutes, model.ContextTimeSavings, "30 minutes")),
		slide(2, "2 hours", assertion(2, 2, model.UnitHours, model.ContextTimeSavings, "2 hours")),
	}

	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("minutes and hours must not be compared, got %+v", findings)
	}
}

func TestChecker_GroupNeedsTwoDistinctSlides(t *testing.T) {
	c := newTestChecker(nil)

	// Divergent values confined to one slide are the math check's
	// business, not a cross-slide conflict.
	slides := []model.SlideContent{
		slide(1, "10 mins, 20 mins",
			assertion(1, 10, model.UnitMinutes, model.ContextTimeSavings, "10 mins"),
			assertion(1, 20, model.UnitMinutes, model.ContextTimeSavings, "20 mins"),
		),
		slide(2, "no numbers here"),
	}

	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("single-slide spread must not produce a cross-slide finding, got %+v", findings)
	}
}

func TestChecker_MultiSlideGroupIsOneFinding(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(1, "$1M", assertion(1, 1_000_000, model.UnitCurrency, model.ContextCurrencySaved, "$1M")),
		slide(2, "$2M", assertion(2, 2_000_000, model.UnitCurrency, model.ContextCurrencySaved, "$2M")),
		slide(5, "$3M", assertion(5, 3_000_000, model.UnitCurrency, model.ContextCurrencySaved, "$3M")),
	}

	findings := c.Check(context.Background(), slides)
	if len(findings) != 1 {
		t.Fatalf("expected one finding for the whole group, not pairwise findings; got %d", len(findings))
	}
	if got := findings[0].Slides; len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 5 {
		t.Errorf("slides = %v, want [1 2 5]", got)
	}
	if len(findings[0].Evidence) != 3 {
		t.Errorf("expected evidence from all three slides, got %v", findings[0].Evidence)
	}
}

func TestChecker_MathematicalError(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(2, "breakdown",
			assertion(2, 50, model.UnitMinutes, model.ContextTotalTimeClaimed, "50 minutes total"),
			assertion(2, 10, model.UnitMinutes, model.ContextTimeComponent, "estimated 10 mins"),
			assertion(2, 12, model.UnitMinutes, model.ContextTimeComponent, "estimated 12 mins"),
			assertion(2, 8, model.UnitMinutes, model.ContextTimeComponent, "estimated 8 mins"),
			assertion(2, 6, model.UnitMinutes, model.ContextTimeComponent, "estimated 6 mins"),
			assertion(2, 4, model.UnitMinutes, model.ContextTimeComponent, "estimated 4 mins"),
		),
		slide(3, "filler"),
	}

	findings := c.Check(context.Background(), slides)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
	}

	f := findings[0]
	if f.Type != model.FindingMathematicalError {
		t.Errorf("type = %s, want %s", f.Type, model.FindingMathematicalError)
	}
	if f.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", f.Confidence)
	}
	if len(f.Slides) != 2 || f.Slides[0] != 2 || f.Slides[1] != 2 {
		t.Errorf("slides = %v, want [2 2]", f.Slides)
	}
}

func TestChecker_MathematicalErrorExactSumPasses(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(2, "breakdown",
			assertion(2, 40, model.UnitMinutes, model.ContextTotalTimeClaimed, "40 minutes total"),
			assertion(2, 10, model.UnitMinutes, model.ContextTimeComponent, "estimated 10 mins"),
			assertion(2, 12, model.UnitMinutes, model.ContextTimeComponent, "estimated 12 mins"),
			assertion(2, 8, model.UnitMinutes, model.ContextTimeComponent, "estimated 8 mins"),
			assertion(2, 6, model.UnitMinutes, model.ContextTimeComponent, "estimated 6 mins"),
			assertion(2, 4, model.UnitMinutes, model.ContextTimeComponent, "estimated 4 mins"),
		),
		slide(3, "filler"),
	}

	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("exact sum must not be flagged, got %+v", findings)
	}
}

func TestChecker_MathNeedsTwoComponents(t *testing.T) {
	c := newTestChecker(nil)

	slides := []model.SlideContent{
		slide(1, "thin breakdown",
			assertion(1, 50, model.UnitMinutes, model.ContextTotalTimeClaimed, "50 minutes total"),
			assertion(1, 10, model.UnitMinutes, model.ContextTimeComponent, "estimated 10 mins"),
		),
		slide(2, "filler"),
	}

	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("a single component is not a breakdown, got %+v", findings)
	}
}

func TestChecker_MathIsIntraSlideOnly(t *testing.T) {
	c := newTestChecker(nil)

	// Total on slide 1, components on slide 2: never checked together.
	slides := []model.SlideContent{
		slide(1, "total", assertion(1, 50, model.UnitMinutes, model.ContextTotalTimeClaimed, "50 minutes total")),
		slide(2, "parts",
			assertion(2, 10, model.UnitMinutes, model.ContextTimeComponent, "estimated 10 mins"),
			assertion(2, 12, model.UnitMinutes, model.ContextTimeComponent, "estimated 12 mins"),
		),
	}

	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("cross-slide total/components must not be checked, got %+v", findings)
	}
}

func TestChecker_SemanticConflict(t *testing.T) {
	oracle := &fakeJudge{
		verdicts: map[string]*llm.Verdict{
			pairID("we target SMBs", "we target enterprises only"): {
				Consistent: false,
				Reason:     "Slide A targets SMBs while slide B targets enterprises only",
			},
		},
	}
	c := newTestChecker(oracle)

	slides := []model.SlideContent{
		slide(1, "we target SMBs"),
		slide(2, "we target enterprises only"),
	}

	findings := c.Check(context.Background(), slides)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %+v", len(findings), findings)
	}

	f := findings[0]
	if f.Type != model.FindingSemanticConflict {
		t.Errorf("type = %s, want %s", f.Type, model.FindingSemanticConflict)
	}
	if f.Confidence != 0.80 {
		t.Errorf("confidence = %v, want 0.80", f.Confidence)
	}
	if f.Description != "Slide A targets SMBs while slide B targets enterprises only" {
		t.Errorf("description = %q, want the oracle reason verbatim", f.Description)
	}
}

func TestChecker_SemanticPairOrderPreserved(t *testing.T) {
	// All three pairs conflict; findings must come back in pair
	// iteration order (1,2), (1,3), (2,3) regardless of completion
	// order.
	oracle := &fakeJudge{
		verdicts: map[string]*llm.Verdict{
			pairID("a", "b"): {Consistent: false, Reason: "a vs b"},
			pairID("a", "c"): {Consistent: false, Reason: "a vs c"},
			pairID("b", "c"): {Consistent: false, Reason: "b vs c"},
		},
	}
	c := newTestChecker(oracle)

	slides := []model.SlideContent{slide(1, "a"), slide(2, "b"), slide(3, "c")}

	for run := 0; run < 5; run++ {
		findings := c.Check(context.Background(), slides)
		if len(findings) != 3 {
			t.Fatalf("expected 3 findings, got %d", len(findings))
		}
		want := []string{"a vs b", "a vs c", "b vs c"}
		for i, w := range want {
			if findings[i].Description != w {
				t.Fatalf("run %d: finding %d = %q, want %q", run, i, findings[i].Description, w)
			}
		}
	}
}

func TestChecker_RulePassPrecedesOraclePass(t *testing.T) {
	oracle := &fakeJudge{
		verdicts: map[string]*llm.Verdict{
			pairID("2x faster", "3x faster"): {Consistent: false, Reason: "contradictory speedups"},
		},
	}
	c := newTestChecker(oracle)

	slides := []model.SlideContent{
		slide(1, "2x faster", assertion(1, 2, model.UnitMultiplier, model.ContextPerformance, "2x faster")),
		slide(2, "3x faster", assertion(2, 3, model.UnitMultiplier, model.ContextPerformance, "3x faster")),
	}

	findings := c.Check(context.Background(), slides)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Type != model.FindingPerformanceConflict {
		t.Errorf("first finding = %s, want the rule-based pass first", findings[0].Type)
	}
	if findings[1].Type != model.FindingSemanticConflict {
		t.Errorf("second finding = %s, want the oracle pass second", findings[1].Type)
	}
}

func TestChecker_OracleFailureIsOneLowConfidenceFinding(t *testing.T) {
	oracle := &fakeJudge{
		errors: map[string]error{
			pairID("a", "b"): fmt.Errorf("connection refused"),
		},
		verdicts: map[string]*llm.Verdict{
			pairID("a", "c"): {Consistent: false, Reason: "a vs c"},
		},
	}
	c := newTestChecker(oracle)

	slides := []model.SlideContent{slide(1, "a"), slide(2, "b"), slide(3, "c")}

	findings := c.Check(context.Background(), slides)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings (one failure, one conflict), got %d: %+v", len(findings), findings)
	}

	failure := findings[0]
	if failure.Type != model.FindingUnparsedOracle {
		t.Errorf("type = %s, want %s", failure.Type, model.FindingUnparsedOracle)
	}
	if failure.Confidence != 0.30 {
		t.Errorf("confidence = %v, want 0.30", failure.Confidence)
	}
	if failure.Severity != model.SeverityLow {
		t.Errorf("severity = %s, want low", failure.Severity)
	}

	// The failing pair must not poison the remaining pairs.
	if findings[1].Type != model.FindingSemanticConflict {
		t.Errorf("expected the unaffected pair to still produce its finding, got %+v", findings[1])
	}
}

func TestChecker_UnparseableOracleOutputKeepsRawText(t *testing.T) {
	oracle := &fakeJudge{
		errors: map[string]error{
			pairID("a", "b"): &llm.ParseError{Raw: "I think they might disagree"},
		},
	}
	c := newTestChecker(oracle)

	slides := []model.SlideContent{slide(1, "a"), slide(2, "b")}

	findings := c.Check(context.Background(), slides)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Description != "Raw oracle output: I think they might disagree" {
		t.Errorf("description = %q, want the raw oracle text preserved", findings[0].Description)
	}
}

func TestChecker_ConsistentVerdictsProduceNothing(t *testing.T) {
	oracle := &fakeJudge{}
	c := newTestChecker(oracle)

	slides := []model.SlideContent{slide(1, "a"), slide(2, "b"), slide(3, "c")}

	if findings := c.Check(context.Background(), slides); len(findings) != 0 {
		t.Errorf("expected no findings for consistent verdicts, got %+v", findings)
	}
	if got := atomic.LoadInt32(&oracle.calls); got != 3 {
		t.Errorf("expected 3 pairwise calls, got %d", got)
	}
}
