package model

import (
	"fmt"
	"time"
)

// PatternFamily identifies one regex family in the extraction table
type PatternFamily string

const (
	FamilyCurrency   PatternFamily = "currency"
	FamilyTime       PatternFamily = "time"
	FamilyPercentage PatternFamily = "percentage"
	FamilyMultiplier PatternFamily = "multiplier"
	FamilyRatio      PatternFamily = "ratio"
)

// Families returns the pattern families in their fixed iteration order
func Families() []PatternFamily {
	return []PatternFamily{FamilyCurrency, FamilyTime, FamilyPercentage, FamilyMultiplier, FamilyRatio}
}

// ContextRule refines an assertion's context label: when any keyword
// appears in the text window around a match from Family, Label is
// assigned instead of the family default. First matching rule wins.
type ContextRule struct {
	Family   PatternFamily `yaml:"family" mapstructure:"family"`
	Keywords []string      `yaml:"keywords" mapstructure:"keywords"`
	Label    string        `yaml:"label" mapstructure:"label"`
}

// MathGroup ties a "total" context label to its component label for
// the intra-slide sum check.
type MathGroup struct {
	TotalContext     string `yaml:"total" mapstructure:"total"`
	ComponentContext string `yaml:"components" mapstructure:"components"`
}

// ExtractConfig drives the pattern and claim extractors
type ExtractConfig struct {
	// Patterns maps each family to its regex alternatives. Capture
	// group 1 is the numeric literal; group 2, when present, is the
	// unit/suffix token (ratio uses groups 1 and 2 as the pair).
	Patterns map[PatternFamily][]string `yaml:"patterns" mapstructure:"patterns"`

	// FamilyContexts is the default context label per family
	FamilyContexts map[PatternFamily]string `yaml:"family_contexts" mapstructure:"family_contexts"`

	// ContextRules refine labels by keyword window search
	ContextRules []ContextRule `yaml:"context_rules" mapstructure:"context_rules"`

	// ContextWindow is how many bytes before/after a match are
	// searched for context keywords
	ContextWindow int `yaml:"context_window" mapstructure:"context_window"`

	// ClaimKeywords qualify a sentence as a claim
	ClaimKeywords []string `yaml:"claim_keywords" mapstructure:"claim_keywords"`

	// MaxClaims caps claims per slide (first K in document order)
	MaxClaims int `yaml:"max_claims" mapstructure:"max_claims"`
}

// CheckConfig drives the consistency checker
type CheckConfig struct {
	// Confidence holds the policy constant per finding type
	Confidence map[FindingType]float64 `yaml:"confidence" mapstructure:"confidence"`

	// MathGroups configures the intra-slide total-vs-components check
	MathGroups []MathGroup `yaml:"math_groups" mapstructure:"math_groups"`

	// MinConfidence suppresses findings below this value in default
	// report output (the findings are still produced)
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
}

// OracleConfig configures the external semantic-contradiction oracle
type OracleConfig struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled)
	Provider string `yaml:"provider" mapstructure:"provider"`

	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout applies per pairwise call
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Concurrency bounds outstanding oracle calls
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// RatePerSecond throttles calls across workers (0 = unlimited)
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`

	// CacheVerdicts reuses verdicts for identical text pairs within
	// the process
	CacheVerdicts bool `yaml:"cache_verdicts" mapstructure:"cache_verdicts"`

	// Proxy settings for the HTTP providers
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format      string `yaml:"format" mapstructure:"format"` // console, json, csv, txt
	GroupByType bool   `yaml:"group_by_type" mapstructure:"group_by_type"`
	ShowAll     bool   `yaml:"show_all" mapstructure:"show_all"` // include findings below MinConfidence
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
}

// Config is the single immutable configuration value passed into the
// extractors, the checker and the renderers. Built once at startup;
// never mutated during a run.
type Config struct {
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Check   CheckConfig   `yaml:"check" mapstructure:"check"`
	Oracle  OracleConfig  `yaml:"oracle" mapstructure:"oracle"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`

	// BatchWorkers bounds deck-level parallelism in batch mode
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// Context labels used by the default configuration. The checker and
// context rules both reference these; overriding the config replaces
// them wholesale.
const (
	ContextCurrencySaved     = "currency_saved"
	ContextTimeSavedPerSlide = "time_saved_per_slide"
	ContextTotalTimeClaimed  = "total_time_claimed"
	ContextTimeComponent     = "time_component"
	ContextTimeSavings       = "time_savings"
	ContextPercentage        = "percentage"
	ContextPerformance       = "performance_improvement"
	ContextRatio             = "ratio"
)

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			Patterns: map[PatternFamily][]string{
				FamilyCurrency: {
					`\$(\d+(?:,\d{3})*(?:\.\d{1,2})?)([MBK]?)`,
					`(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s*([MBK]?)\s*dollars?`,
					`(\d+(?:,\d{3})*(?:\.\d{1,2})?)([MBK]?)\s*USD`,
				},
				FamilyTime: {
					`(\d+(?:\.\d+)?)\s*(mins?|minutes?)`,
					`(\d+(?:\.\d+)?)\s*(hours?|hrs?)`,
					`(\d+(?:\.\d+)?)\s*(days?)`,
					`(\d+(?:\.\d+)?)\s*(weeks?)`,
					`(\d+(?:\.\d+)?)\s*(months?)`,
					`(\d+(?:\.\d+)?)\s*(years?)`,
				},
				FamilyPercentage: {
					`(\d+(?:\.\d+)?)\s*%`,
					`(\d+(?:\.\d+)?)\s*percent`,
					`(\d+(?:\.\d+)?)\s*per\s*cent`,
				},
				FamilyMultiplier: {
					`(\d+(?:\.\d+)?)x\s*faster`,
					`(\d+(?:\.\d+)?)\s*times\s*faster`,
					`(\d+(?:\.\d+)?)x\s*improvement`,
					`(\d+(?:\.\d+)?)\s*times\s*more`,
				},
				FamilyRatio: {
					`(\d+)\s*:\s*(\d+)`,
					`(\d+)\s*out\s*of\s*(\d+)`,
				},
			},
			FamilyContexts: map[PatternFamily]string{
				FamilyCurrency:   ContextCurrencySaved,
				FamilyTime:       ContextTimeSavings,
				FamilyPercentage: ContextPercentage,
				FamilyMultiplier: ContextPerformance,
				FamilyRatio:      ContextRatio,
			},
			ContextRules: []ContextRule{
				{Family: FamilyTime, Keywords: []string{"per slide"}, Label: ContextTimeSavedPerSlide},
				{Family: FamilyTime, Keywords: []string{"estimated"}, Label: ContextTimeComponent},
				{Family: FamilyTime, Keywords: []string{"total", "per consultant monthly"}, Label: ContextTotalTimeClaimed},
			},
			ContextWindow: 60,
			ClaimKeywords: []string{
				"AI-powered", "automated", "faster", "efficient", "streamlined",
				"competitive", "market leader", "innovative", "cutting-edge",
				"time-saving", "productivity", "efficiency", "accuracy",
				"revolutionary", "breakthrough", "best-in-class", "superior",
				"cost-effective", "affordable", "premium", "sustainable",
			},
			MaxClaims: 5,
		},
		Check: CheckConfig{
			Confidence: map[FindingType]float64{
				FindingNumericalConflict:   0.95,
				FindingPerformanceConflict: 0.90,
				FindingMathematicalError:   0.95,
				FindingSemanticConflict:    0.80,
				FindingUnparsedOracle:      0.30,
			},
			MathGroups: []MathGroup{
				{TotalContext: ContextTotalTimeClaimed, ComponentContext: ContextTimeComponent},
			},
			MinConfidence: 0.7,
		},
		Oracle: OracleConfig{
			Provider:      "", // disabled unless configured
			Timeout:       30 * time.Second,
			MaxTokens:     512,
			Concurrency:   3,
			RatePerSecond: 2,
			CacheVerdicts: true,
		},
		Output: OutputConfig{
			Format:      "console",
			GroupByType: true,
		},
		BatchWorkers: 4,
	}
}

// Validate fails fast on configuration the engine cannot run with.
// Missing required keys are fatal before any analysis begins.
func (c *Config) Validate() error {
	if len(c.Extract.Patterns) == 0 {
		return fmt.Errorf("config: extract.patterns is empty")
	}
	for _, fam := range Families() {
		if len(c.Extract.Patterns[fam]) == 0 {
			return fmt.Errorf("config: no patterns configured for family %q", fam)
		}
		if c.Extract.FamilyContexts[fam] == "" {
			return fmt.Errorf("config: no default context for family %q", fam)
		}
	}
	if len(c.Extract.ClaimKeywords) == 0 {
		return fmt.Errorf("config: extract.claim_keywords is empty")
	}
	if c.Extract.MaxClaims <= 0 {
		return fmt.Errorf("config: extract.max_claims must be positive")
	}
	for _, t := range []FindingType{
		FindingNumericalConflict, FindingPerformanceConflict,
		FindingMathematicalError, FindingSemanticConflict, FindingUnparsedOracle,
	} {
		v, ok := c.Check.Confidence[t]
		if !ok {
			return fmt.Errorf("config: missing confidence for finding type %q", t)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("config: confidence for %q out of range: %v", t, v)
		}
	}
	if c.Check.MinConfidence < 0 || c.Check.MinConfidence > 1 {
		return fmt.Errorf("config: check.min_confidence out of range: %v", c.Check.MinConfidence)
	}
	if c.Oracle.Provider != "" {
		if c.Oracle.Concurrency <= 0 {
			return fmt.Errorf("config: oracle.concurrency must be positive")
		}
		if c.Oracle.Timeout <= 0 {
			return fmt.Errorf("config: oracle.timeout must be positive")
		}
	}
	return nil
}
