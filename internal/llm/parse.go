package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports an oracle response that could not be interpreted
// as a structured verdict even after cleanup. The raw text is retained
// so callers can surface the misbehavior instead of dropping it.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable oracle response: %.200s", e.Raw)
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// CleanResponse strips the decoration language models habitually wrap
// around JSON: code fences with language tags, escaped single quotes,
// and trailing commas before closing brackets.
func CleanResponse(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.Join(kept, "\n")
	}

	text = strings.ReplaceAll(text, `\'`, `'`)
	text = trailingCommaRe.ReplaceAllString(text, `$1`)

	return strings.TrimSpace(text)
}

// ParseVerdict cleans a raw oracle response and parses it into a
// Verdict. Failure is recoverable: it returns *ParseError, never
// panics or aborts the run.
func ParseVerdict(raw string) (*Verdict, error) {
	cleaned := CleanResponse(raw)
	if cleaned == "" {
		return nil, &ParseError{Raw: raw}
	}

	var v Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, &ParseError{Raw: raw}
	}
	return &v, nil
}
