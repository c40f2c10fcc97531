package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/decklint/decklint/internal/model"
)

// PatternExtractor scans slide text against the configured regex
// families and emits normalized numeric assertions. Extraction is pure
// and deterministic: identical text and configuration always produce
// the identical assertion sequence.
type PatternExtractor struct {
	cfg      model.ExtractConfig
	families []compiledFamily
}

type compiledFamily struct {
	family   model.PatternFamily
	patterns []*regexp.Regexp
}

// NewPatternExtractor compiles the configured pattern table. A regex
// that fails to compile is a configuration error and fatal.
func NewPatternExtractor(cfg model.ExtractConfig) (*PatternExtractor, error) {
	e := &PatternExtractor{cfg: cfg}
	for _, fam := range model.Families() {
		cf := compiledFamily{family: fam}
		for _, p := range cfg.Patterns[fam] {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, fmt.Errorf("compile %s pattern %q: %w", fam, p, err)
			}
			cf.patterns = append(cf.patterns, re)
		}
		e.families = append(e.families, cf)
	}
	return e, nil
}

type span struct{ start, end int }

type spannedAssertion struct {
	span      span
	assertion model.NumericAssertion
}

// Extract returns all numeric assertions found in text, in document
// order of the matched substrings. Overlapping matches within one
// family are deduplicated by span; families are matched independently.
func (e *PatternExtractor) Extract(text string, slide int) []model.NumericAssertion {
	var found []spannedAssertion

	for _, cf := range e.families {
		seen := make(map[span]bool)
		for _, re := range cf.patterns {
			for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
				s := span{m[0], m[1]}
				if overlaps(seen, s) {
					continue
				}

				value, class, ok := e.normalizeMatch(text, cf.family, m)
				if !ok {
					continue // malformed literal, drop silently
				}
				seen[s] = true

				found = append(found, spannedAssertion{
					span: s,
					assertion: model.NumericAssertion{
						Value:      value,
						Unit:       class,
						Context:    e.contextLabel(text, cf.family, s),
						SourceText: text[s.start:s.end],
						Slide:      slide,
					},
				})
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].span.start != found[j].span.start {
			return found[i].span.start < found[j].span.start
		}
		return found[i].span.end < found[j].span.end
	})

	assertions := make([]model.NumericAssertion, len(found))
	for i, f := range found {
		assertions[i] = f.assertion
	}
	return assertions
}

// normalizeMatch pulls the capture groups out of a submatch index set
// and normalizes them for the family
func (e *PatternExtractor) normalizeMatch(text string, fam model.PatternFamily, m []int) (float64, model.UnitClass, bool) {
	group := func(n int) string {
		if 2*n+1 >= len(m) || m[2*n] < 0 {
			return ""
		}
		return text[m[2*n]:m[2*n+1]]
	}

	if fam == model.FamilyRatio {
		return NormalizeRatio(group(1), group(2))
	}
	return Normalize(group(1), group(2), fam)
}

// contextLabel assigns a semantic bucket for the match: the first
// context rule whose keywords appear in the surrounding text window
// wins, otherwise the family default applies.
func (e *PatternExtractor) contextLabel(text string, fam model.PatternFamily, s span) string {
	w := e.cfg.ContextWindow
	lo, hi := s.start-w, s.end+w
	if lo < 0 {
		lo = 0
	}
	if hi > len(text) {
		hi = len(text)
	}
	window := strings.ToLower(text[lo:hi])

	for _, rule := range e.cfg.ContextRules {
		if rule.Family != fam {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(window, strings.ToLower(kw)) {
				return rule.Label
			}
		}
	}
	return e.cfg.FamilyContexts[fam]
}

// overlaps reports whether s intersects any already-claimed span
func overlaps(seen map[span]bool, s span) bool {
	for o := range seen {
		if s.start < o.end && o.start < s.end {
			return true
		}
	}
	return false
}
