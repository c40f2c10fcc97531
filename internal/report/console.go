package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/decklint/decklint/internal/model"
)

// renderConsole writes a human-readable report with one table per
// finding, grouped by type and sorted by severity
func renderConsole(rep *model.Report, cfg model.OutputConfig, out io.Writer) error {
	if len(rep.Findings) == 0 {
		fmt.Fprintln(out, "✓ No inconsistencies detected")
		return nil
	}

	fmt.Fprintf(out, "Found %d inconsistencies across %d slides\n", rep.Total, rep.SlideCount)

	if !cfg.GroupByType {
		for _, f := range rep.Findings {
			renderFindingTable(f, out)
		}
		return nil
	}

	types, groups := groupByType(rep.Findings)
	for _, t := range types {
		findings := groups[t]
		fmt.Fprintf(out, "\n%s (%d issues, severity: %s)\n",
			strings.ToUpper(string(t)), len(findings), model.SeverityOf(t))

		for _, f := range findings {
			renderFindingTable(f, out)
		}
	}

	return nil
}

func renderFindingTable(f model.Finding, out io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 80},
	})

	t.AppendRow(table.Row{"Slides", joinInts(f.Slides)})
	t.AppendRow(table.Row{"Type", string(f.Type)})
	t.AppendRow(table.Row{"Description", f.Description})
	t.AppendRow(table.Row{"Confidence", fmt.Sprintf("%.0f%%", f.Confidence*100)})
	t.AppendRow(table.Row{"Evidence", strings.Join(f.Evidence, "\n")})
	t.AppendRow(table.Row{"Recommendation", f.Recommendation})

	t.Render()
	fmt.Fprintln(out)
}

// joinInts renders slide numbers as comma-joined text
func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
