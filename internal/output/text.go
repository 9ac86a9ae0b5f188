// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dsablic/licenseid/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// WriteText writes the scan report as terminal tables to w.
func WriteText(w io.Writer, report model.ScanReport) error {
	fmt.Fprintf(w, "%s: %d files, %d unrecognized (threshold %.2f)\n",
		report.Source, len(report.Files), report.Unknown, report.Threshold)

	if len(report.Files) > 0 {
		t := newTable("FILE", "KIND", "LICENSE", "SCORE")
		for _, f := range report.Files {
			name := f.Match.Name
			if !f.Recognized {
				name = "? " + name
			}
			t.Row(f.Path, string(f.Kind), name, fmt.Sprintf("%.4f", f.Match.Score))
		}
		fmt.Fprintln(w, t.Render())
	}

	if len(report.CrossChecks) > 0 {
		t := newTable("DETECTOR", "LICENSE", "CONFIDENCE")
		for _, c := range report.CrossChecks {
			t.Row(c.Detector, c.License, fmt.Sprintf("%.2f", c.Confidence))
		}
		fmt.Fprintln(w, t.Render())
	}

	for _, e := range report.Errors {
		fmt.Fprintf(w, "error: %s: %s\n", e.Path, e.Error)
	}
	return nil
}

// WriteCorpusText writes a corpus listing as a terminal table to w.
func WriteCorpusText(w io.Writer, info model.CorpusInfo) error {
	t := newTable("LICENSE", "ALIASES", "LINES", "BIGRAMS")
	for _, e := range info.Entries {
		t.Row(e.Name, strings.Join(e.Aliases, ", "), fmt.Sprint(e.Lines), fmt.Sprint(e.Bigrams))
	}
	fmt.Fprintf(w, "%s: %d licenses\n", info.Source, len(info.Entries))
	fmt.Fprintln(w, t.Render())
	return nil
}

// WriteMatches writes identification candidates one per line, best first.
func WriteMatches(w io.Writer, matches []model.Match, threshold float64) error {
	for _, m := range matches {
		mark := ""
		if m.Score < threshold {
			mark = " (below threshold)"
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", m, mark); err != nil {
			return err
		}
	}
	return nil
}
