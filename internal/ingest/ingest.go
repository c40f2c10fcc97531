// Package ingest turns slide-deck containers into the ordered
// per-slide text blocks the analysis pipeline consumes. Supported
// inputs: .pptx archives, HTML slide exports, plain text/markdown
// decks with "---" separators, a JSON slide array, or a directory of
// per-slide files.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decklint/decklint/internal/model"
)

// Load reads a deck from path and returns its slides in presentation
// order with 1-based numbering. Slide numbers are opaque labels for
// the rest of the pipeline; JSON input may carry its own numbering,
// including gaps.
func Load(path string) ([]model.Slide, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat deck: %w", err)
	}

	if info.IsDir() {
		return ReadDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pptx":
		return ReadPPTX(path)
	case ".html", ".htm":
		return ReadHTML(path)
	case ".json":
		return ReadJSON(path)
	case ".txt", ".md":
		return ReadText(path)
	default:
		return nil, fmt.Errorf("unsupported deck format: %s", filepath.Ext(path))
	}
}

// ReadDir treats each supported file in a directory as one slide,
// ordered by file name.
func ReadDir(dir string) ([]model.Slide, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read deck directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".md", ".html", ".htm":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no slide files found in %s", dir)
	}

	var slides []model.Slide
	for i, name := range names {
		path := filepath.Join(dir, name)
		var text string
		var err error

		switch strings.ToLower(filepath.Ext(name)) {
		case ".html", ".htm":
			text, err = htmlFileText(path)
		default:
			var data []byte
			data, err = os.ReadFile(path)
			text = strings.TrimSpace(string(data))
		}
		if err != nil {
			return nil, fmt.Errorf("read slide %s: %w", name, err)
		}

		slides = append(slides, model.Slide{Number: i + 1, Text: text})
	}

	return slides, nil
}
