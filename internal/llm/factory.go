package llm

import (
	"fmt"
	"strings"
)

// NewJudge creates an oracle client based on configuration. An empty
// provider name disables the oracle (nil Judge, nil error); the
// checker then runs the rule-based pass only.
func NewJudge(config Config) (Judge, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIJudge(config)

	case "anthropic", "claude":
		return NewAnthropicJudge(config)

	case "ollama":
		return NewOllamaJudge(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
