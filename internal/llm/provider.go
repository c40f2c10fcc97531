package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/decklint/decklint/internal/model"
)

// Verdict is the oracle's structured judgement on one slide pair
type Verdict struct {
	Consistent bool   `json:"consistent"`
	Reason     string `json:"reason"`
}

// Judge is the narrow capability interface over the external
// language-model oracle. Implementations are treated as untrusted,
// fallible and non-deterministic; callers must tolerate any error and
// continue with the remaining pairs.
type Judge interface {
	// Name returns the provider name
	Name() string

	// Judge asks the oracle whether two slide texts contradict each
	// other. It returns *ParseError when the response cannot be
	// interpreted as a verdict.
	Judge(ctx context.Context, textA, textB string) (*Verdict, error)

	// IsAvailable checks if the provider is properly configured and
	// reachable
	IsAvailable(ctx context.Context) bool
}

// Config holds oracle provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout per judgement call
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30 * time.Second,
		MaxTokens: 512,
	}
}

// ConfigFromModel converts model.OracleConfig to llm.Config
func ConfigFromModel(oc model.OracleConfig) Config {
	return Config{
		Provider:   oc.Provider,
		Model:      oc.Model,
		APIKey:     oc.APIKey,
		BaseURL:    oc.BaseURL,
		Timeout:    oc.Timeout,
		MaxTokens:  oc.MaxTokens,
		HTTPProxy:  oc.HTTPProxy,
		HTTPSProxy: oc.HTTPSProxy,
		NoProxy:    oc.NoProxy,
	}
}

// verdictSystemPrompt pins the oracle to machine-readable output
const verdictSystemPrompt = "You compare presentation slides for factual contradictions. You respond ONLY with valid JSON, no prose, no code fences."

// BuildPrompt constructs the pairwise comparison prompt
func BuildPrompt(textA, textB string) string {
	return fmt.Sprintf(`Compare the following two slide texts for contradictions in facts, numbers, performance claims or timelines.

Slide A: %s

Slide B: %s

Respond ONLY with valid JSON in the format: {"consistent": bool, "reason": str}`, textA, textB)
}
