package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/decklint/decklint/internal/model"
)

// ReadText reads a plain text or markdown deck where slides are
// separated by a line containing only "---"
func ReadText(path string) ([]model.Slide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text deck: %w", err)
	}

	var slides []model.Slide
	var current []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(current, "\n"))
		current = nil
		if text == "" {
			return
		}
		slides = append(slides, model.Slide{Number: len(slides) + 1, Text: text})
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found in %s", path)
	}
	return slides, nil
}

// ReadJSON reads a deck from a JSON array of slide records. Slide
// numbers are taken as given: gaps are tolerated, zero or missing
// numbers are replaced with the position.
func ReadJSON(path string) ([]model.Slide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json deck: %w", err)
	}

	var slides []model.Slide
	if err := json.Unmarshal(data, &slides); err != nil {
		return nil, fmt.Errorf("parse json deck: %w", err)
	}

	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found in %s", path)
	}

	for i := range slides {
		if slides[i].Number == 0 {
			slides[i].Number = i + 1
		}
	}
	return slides, nil
}
