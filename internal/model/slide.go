package model

// Slide is one raw text block handed over by the ingestion stage
type Slide struct {
	Number int    `json:"slide_number"` // 1-based, presentation order
	Text   string `json:"text"`
}

// UnitClass is the comparable dimension of a numeric assertion.
// Values are only ever compared within the same class.
type UnitClass string

const (
	UnitCurrency   UnitClass = "currency"
	UnitMinutes    UnitClass = "time_minutes"
	UnitHours      UnitClass = "time_hours"
	UnitDays       UnitClass = "time_days"
	UnitWeeks      UnitClass = "time_weeks"
	UnitMonths     UnitClass = "time_months"
	UnitYears      UnitClass = "time_years"
	UnitPercentage UnitClass = "percentage"
	UnitMultiplier UnitClass = "multiplier"
	UnitRatio      UnitClass = "ratio"
)

// NumericAssertion is one quantitative statement found in slide text.
// Value is always expressed in the class's canonical unit: "$2M" is
// stored as 2_000_000, minutes are never mixed with hours.
type NumericAssertion struct {
	Value      float64   `json:"value"`
	Unit       UnitClass `json:"unit"`
	Context    string    `json:"context"`     // semantic bucket, e.g. "performance_improvement"
	SourceText string    `json:"source_text"` // verbatim matched substring
	Slide      int       `json:"slide_number"`
}

// Claim is a sentence-level extract flagged by keyword matching
type Claim struct {
	Text    string `json:"text"`
	Keyword string `json:"keyword,omitempty"` // which keyword matched
	Slide   int    `json:"slide_number"`
}

// SlideContent is the per-slide aggregate produced by the extraction
// stage. It is built once per slide and never mutated afterwards.
type SlideContent struct {
	Slide      int                `json:"slide_number"`
	Text       string             `json:"text"`
	Assertions []NumericAssertion `json:"assertions,omitempty"`
	Claims     []Claim            `json:"claims,omitempty"`
}
