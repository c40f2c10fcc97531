package check

import (
	"fmt"

	"github.com/decklint/decklint/internal/model"
)

// checkMath verifies that a slide's stated total matches the sum of
// its itemized components. This is the only intra-slide rule: totals
// are never compared against component breakdowns on other slides.
// The comparison is exact after normalization, no tolerance.
func (c *Checker) checkMath(slides []model.SlideContent) []model.Finding {
	var findings []model.Finding

	for _, slide := range slides {
		for _, group := range c.cfg.MathGroups {
			findings = append(findings, c.checkMathGroup(slide, group)...)
		}
	}

	return findings
}

func (c *Checker) checkMathGroup(slide model.SlideContent, group model.MathGroup) []model.Finding {
	// Totals and components must share a unit class; a total in hours
	// is never checked against components in minutes.
	totals := make(map[model.UnitClass]*model.NumericAssertion)
	components := make(map[model.UnitClass][]model.NumericAssertion)
	var unitOrder []model.UnitClass

	for i := range slide.Assertions {
		a := slide.Assertions[i]
		switch a.Context {
		case group.TotalContext:
			if _, dup := totals[a.Unit]; !dup {
				totals[a.Unit] = &slide.Assertions[i]
				unitOrder = append(unitOrder, a.Unit)
			}
		case group.ComponentContext:
			components[a.Unit] = append(components[a.Unit], a)
		}
	}

	var findings []model.Finding
	for _, unit := range unitOrder {
		total := totals[unit]
		parts := components[unit]
		if len(parts) < 2 {
			continue
		}

		var sum float64
		evidence := []string{fmt.Sprintf("Slide %d (stated total): %s", slide.Slide, total.SourceText)}
		for _, p := range parts {
			sum += p.Value
			evidence = append(evidence, fmt.Sprintf("Slide %d (component): %s", slide.Slide, p.SourceText))
		}

		if sum == total.Value {
			continue
		}

		findings = append(findings, model.Finding{
			Type: model.FindingMathematicalError,
			// intra-slide: repeat the slide to keep the >=2 contract
			Slides: []int{slide.Slide, slide.Slide},
			Description: fmt.Sprintf("Stated %s of %v does not match the sum of its components (%v)",
				group.TotalContext, total.Value, sum),
			Confidence:     c.cfg.Confidence[model.FindingMathematicalError],
			Evidence:       evidence,
			Recommendation: "Recalculate the itemized breakdown so it adds up to the stated total",
			Severity:       model.SeverityOf(model.FindingMathematicalError),
		})
	}

	return findings
}
