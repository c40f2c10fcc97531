package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestParseVerdict_PlainJSON(t *testing.T) {
	v, err := ParseVerdict(`{"consistent": false, "reason": "numbers disagree"}`)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if v.Consistent {
		t.Error("expected consistent = false")
	}
	if v.Reason != "numbers disagree" {
		t.Errorf("reason = %q, want %q", v.Reason, "numbers disagree")
	}
}

func TestParseVerdict_FencedJSON(t *testing.T) {
	raw := "```json\n{\"consistent\": true, \"reason\": \"no contradiction\"}\n```"
	v, err := ParseVerdict(raw)
	if err != nil {
		t.Fatalf("expected fenced JSON to parse, got %v", err)
	}
	if !v.Consistent {
		t.Error("expected consistent = true")
	}
}

func TestParseVerdict_TrailingComma(t *testing.T) {
	v, err := ParseVerdict(`{"consistent": false, "reason": "conflict",}`)
	if err != nil {
		t.Fatalf("expected trailing comma to be repaired, got %v", err)
	}
	if v.Consistent {
		t.Error("expected consistent = false")
	}
}

func TestParseVerdict_EscapedSingleQuotes(t *testing.T) {
	v, err := ParseVerdict(`{"consistent": false, "reason": "slide A says \'2M\'"}`)
	if err != nil {
		t.Fatalf("expected escaped quotes to be repaired, got %v", err)
	}
	if !strings.Contains(v.Reason, "'2M'") {
		t.Errorf("reason = %q, want unescaped quotes", v.Reason)
	}
}

func TestParseVerdict_ProseIsParseError(t *testing.T) {
	raw := "I think these slides might contradict each other."
	_, err := ParseVerdict(raw)
	if err == nil {
		t.Fatal("expected error for prose response")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Raw != raw {
		t.Errorf("raw = %q, want original text preserved", parseErr.Raw)
	}
}

func TestParseVerdict_EmptyResponse(t *testing.T) {
	if _, err := ParseVerdict("   \n  "); err == nil {
		t.Fatal("expected error for blank response")
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fence with tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"trailing comma object", `{"a": 1,}`, `{"a": 1}`},
		{"trailing comma array", `[1, 2,]`, `[1, 2]`},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		if got := CleanResponse(tt.in); got != tt.want {
			t.Errorf("%s: CleanResponse(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}
