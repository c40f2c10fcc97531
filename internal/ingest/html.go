package ingest

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/decklint/decklint/internal/model"
)

// ReadHTML extracts slides from an HTML slide export. Decks exported
// as a single page (reveal.js and similar) carry one <section> per
// slide; a document without sections is treated as a single slide.
func ReadHTML(path string) ([]model.Slide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html deck: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse html deck: %w", err)
	}

	sections := findSections(doc)
	if len(sections) == 0 {
		return []model.Slide{{Number: 1, Text: visibleText(doc)}}, nil
	}

	slides := make([]model.Slide, 0, len(sections))
	for i, s := range sections {
		slides = append(slides, model.Slide{Number: i + 1, Text: visibleText(s)})
	}
	return slides, nil
}

// htmlFileText extracts the visible text of one HTML file
func htmlFileText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return "", err
	}
	return visibleText(doc), nil
}

// findSections returns top-level <section> nodes in document order.
// Nested sections (vertical slide stacks) are flattened to their
// parents.
func findSections(n *html.Node) []*html.Node {
	var sections []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "section" {
			sections = append(sections, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return sections
}

// visibleText extracts text nodes, skipping scripts and styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}
