package model

import "time"

// FindingType categorizes a detected inconsistency
type FindingType string

const (
	FindingNumericalConflict   FindingType = "numerical_conflict"
	FindingPerformanceConflict FindingType = "performance_claim_conflict"
	FindingMathematicalError   FindingType = "mathematical_error"
	FindingSemanticConflict    FindingType = "semantic_conflict"
	FindingUnparsedOracle      FindingType = "unparsed_oracle_response"

	// Reserved for oracle-reported taxonomies; the rule-based passes
	// never emit these directly.
	FindingFinancialMismatch  FindingType = "financial_data_mismatch"
	FindingTimelineConflict   FindingType = "timeline_conflict"
	FindingBrandInconsistency FindingType = "brand_inconsistency"
	FindingClaimContradiction FindingType = "claim_contradiction"
)

// Severity indicates how actionable a finding is
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SeverityOf maps a finding type to its display severity
func SeverityOf(t FindingType) Severity {
	switch t {
	case FindingNumericalConflict, FindingPerformanceConflict,
		FindingMathematicalError, FindingFinancialMismatch:
		return SeverityHigh
	case FindingSemanticConflict, FindingTimelineConflict,
		FindingBrandInconsistency, FindingClaimContradiction:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Finding is one reported inconsistency. Slides is sorted ascending
// and always has length >= 2; the intra-slide mathematical check is
// the only producer that repeats a slide number to satisfy that.
type Finding struct {
	Type           FindingType `json:"type"`
	Slides         []int       `json:"slide_numbers"`
	Description    string      `json:"description"`
	Confidence     float64     `json:"confidence"` // policy constant in [0,1], not a computed score
	Evidence       []string    `json:"evidence,omitempty"`
	Recommendation string      `json:"recommendation,omitempty"`
	Severity       Severity    `json:"severity"`
}

// Report is the envelope handed to the renderers
type Report struct {
	File        string    `json:"file,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	SlideCount  int       `json:"slide_count"`
	Total       int       `json:"total_inconsistencies"`
	Findings    []Finding `json:"inconsistencies"`
}
