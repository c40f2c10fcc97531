// Package report renders finding lists for human and machine
// consumption. Renderers consume the checker's output order as-is;
// grouping and severity sorting happen only at display time.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/decklint/decklint/internal/model"
)

// Filter returns the findings at or above the confidence threshold.
// Low-confidence items (notably unparsed oracle responses at 0.3) are
// suppressed from default display but survive in the full report.
func Filter(findings []model.Finding, min float64) []model.Finding {
	kept := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Confidence >= min {
			kept = append(kept, f)
		}
	}
	return kept
}

// Render writes the report to out in the configured format
func Render(rep *model.Report, cfg model.OutputConfig, minConfidence float64, out io.Writer) error {
	display := *rep
	if !cfg.ShowAll {
		display.Findings = Filter(rep.Findings, minConfidence)
		display.Total = len(display.Findings)
	}

	switch cfg.Format {
	case "console", "":
		return renderConsole(&display, cfg, out)
	case "json":
		return renderJSON(&display, out)
	case "csv":
		return renderCSV(&display, out)
	case "txt":
		return renderText(&display, out)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: console, json, csv, txt)", cfg.Format)
	}
}

// severityRank orders severities for display, highest first
func severityRank(s model.Severity) int {
	switch s {
	case model.SeverityHigh:
		return 0
	case model.SeverityMedium:
		return 1
	default:
		return 2
	}
}

// groupByType buckets findings by type, ordered by severity then type
// name; within a group the checker's order is preserved
func groupByType(findings []model.Finding) ([]model.FindingType, map[model.FindingType][]model.Finding) {
	groups := make(map[model.FindingType][]model.Finding)
	for _, f := range findings {
		groups[f.Type] = append(groups[f.Type], f)
	}

	types := make([]model.FindingType, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		ri, rj := severityRank(model.SeverityOf(types[i])), severityRank(model.SeverityOf(types[j]))
		if ri != rj {
			return ri < rj
		}
		return types[i] < types[j]
	})

	return types, groups
}
