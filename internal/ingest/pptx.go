package ingest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/decklint/decklint/internal/model"
)

// slidePartRe matches slide parts inside the OOXML archive
var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// ReadPPTX extracts per-slide text from a .pptx archive. A .pptx is a
// zip of OOXML parts; slide text lives in <a:t> runs inside
// ppt/slides/slideN.xml. Tables and shapes both surface their cell and
// frame text through the same run elements.
func ReadPPTX(path string) ([]model.Slide, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open pptx: %w", err)
	}
	defer func() { _ = archive.Close() }()

	type slidePart struct {
		num  int
		file *zip.File
	}

	var parts []slidePart
	for _, f := range archive.File {
		m := slidePartRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, slidePart{num: n, file: f})
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("no slides found in %s", path)
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].num < parts[j].num })

	slides := make([]model.Slide, 0, len(parts))
	for i, p := range parts {
		rc, err := p.file.Open()
		if err != nil {
			return nil, fmt.Errorf("open slide part %s: %w", p.file.Name, err)
		}
		text, err := slideRunText(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse slide part %s: %w", p.file.Name, err)
		}

		slides = append(slides, model.Slide{Number: i + 1, Text: text})
	}

	return slides, nil
}

// slideRunText collects the text runs of one slide part in document
// order, separating runs with spaces
func slideRunText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inRun := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" && inRun {
				inRun = false
				b.WriteString(" ")
			}
		case xml.CharData:
			if inRun {
				b.Write(t)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}
