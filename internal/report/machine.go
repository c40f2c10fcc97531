package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/decklint/decklint/internal/model"
)

// renderJSON writes the full report envelope as indented JSON
func renderJSON(rep *model.Report, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

// renderCSV writes one row per evidence line so spreadsheet tooling
// can filter on individual assertions
func renderCSV(rep *model.Report, out io.Writer) error {
	w := csv.NewWriter(out)

	header := []string{"slide_numbers", "type", "description", "confidence", "evidence", "recommendation"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, f := range rep.Findings {
		evidence := f.Evidence
		if len(evidence) == 0 {
			evidence = []string{""}
		}
		for _, ev := range evidence {
			row := []string{
				joinInts(f.Slides),
				string(f.Type),
				f.Description,
				fmt.Sprintf("%.2f", f.Confidence),
				ev,
				f.Recommendation,
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}

// renderText writes a terse line-per-finding summary
func renderText(rep *model.Report, out io.Writer) error {
	if len(rep.Findings) == 0 {
		_, err := fmt.Fprintln(out, "No inconsistencies detected")
		return err
	}

	for _, f := range rep.Findings {
		if _, err := fmt.Fprintf(out, "[%s] Slides %s: %s\n", f.Type, joinInts(f.Slides), f.Description); err != nil {
			return err
		}
	}
	return nil
}
