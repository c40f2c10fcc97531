package extract

import (
	"strings"

	"github.com/decklint/decklint/internal/model"
)

// ClaimExtractor pulls keyword-flagged sentences out of slide text
type ClaimExtractor struct {
	keywords  []string
	maxClaims int
}

// NewClaimExtractor creates a claim extractor from the configured
// keyword set and per-slide cap
func NewClaimExtractor(cfg model.ExtractConfig) *ClaimExtractor {
	return &ClaimExtractor{
		keywords:  cfg.ClaimKeywords,
		maxClaims: cfg.MaxClaims,
	}
}

// Extract returns up to the configured number of claim sentences in
// document order. A sentence qualifies if it contains any keyword,
// case-insensitively; sentences are not ranked or deduplicated,
// first-K by position is the defined behavior.
func (e *ClaimExtractor) Extract(text string, slide int) []model.Claim {
	var claims []model.Claim

	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		lower := strings.ToLower(sentence)
		for _, keyword := range e.keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				claims = append(claims, model.Claim{
					Text:    sentence,
					Keyword: keyword,
					Slide:   slide,
				})
				break // one match per sentence
			}
		}

		if len(claims) >= e.maxClaims {
			break
		}
	}

	return claims
}

// splitSentences splits text on sentence terminators
func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}
