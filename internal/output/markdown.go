// internal/output/markdown.go
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dsablic/licenseid/internal/model"
)

// WriteMarkdown writes the scan report as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, report model.ScanReport) error {
	fmt.Fprintf(w, "# License Report\n\n")
	fmt.Fprintf(w, "**Source:** %s\n", report.Source)
	fmt.Fprintf(w, "**Threshold:** %.2f\n", report.Threshold)
	fmt.Fprintf(w, "**Corpus:** %d licenses\n", report.Corpus)
	fmt.Fprintf(w, "**Generated:** %s\n\n", report.GeneratedAt)

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| License | Files |\n")
	fmt.Fprintf(w, "|---------|------:|\n")
	for _, l := range report.Licenses {
		fmt.Fprintf(w, "| %s | %d |\n", l.Name, l.Files)
	}
	if report.Unknown > 0 {
		fmt.Fprintf(w, "| _unrecognized_ | %d |\n", report.Unknown)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "## Files\n\n")
	fmt.Fprintf(w, "| File | Kind | License | Score |\n")
	fmt.Fprintf(w, "|------|------|---------|------:|\n")
	for _, f := range report.Files {
		name := f.Match.Name
		if !f.Recognized {
			name = "_unrecognized_ (closest: " + name + ")"
		}
		fmt.Fprintf(w, "| `%s` | %s | %s | %.4f |\n", f.Path, f.Kind, name, f.Match.Score)
	}
	fmt.Fprintln(w)

	if len(report.CrossChecks) > 0 {
		fmt.Fprintf(w, "## Cross-check\n\n")
		fmt.Fprintf(w, "| Detector | License | Confidence |\n")
		fmt.Fprintf(w, "|----------|---------|-----------:|\n")
		for _, c := range report.CrossChecks {
			fmt.Fprintf(w, "| %s | %s | %.2f |\n", c.Detector, c.License, c.Confidence)
		}
		fmt.Fprintln(w)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "## Errors\n\n")
		for _, e := range report.Errors {
			fmt.Fprintf(w, "- **%s**: %s\n", e.Path, e.Error)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// WriteCorpusMarkdown writes a corpus listing as markdown to w.
func WriteCorpusMarkdown(w io.Writer, info model.CorpusInfo) error {
	fmt.Fprintf(w, "# License Corpus\n\n")
	fmt.Fprintf(w, "**Source:** %s\n", info.Source)
	if info.Format != 0 {
		fmt.Fprintf(w, "**Format version:** %d\n", info.Format)
	}
	if info.Bytes != 0 {
		fmt.Fprintf(w, "**Size:** %d bytes\n", info.Bytes)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "| License | Aliases | Lines | Bigrams |\n")
	fmt.Fprintf(w, "|---------|---------|------:|--------:|\n")
	for _, e := range info.Entries {
		fmt.Fprintf(w, "| %s | %s | %d | %d |\n", e.Name, strings.Join(e.Aliases, ", "), e.Lines, e.Bigrams)
	}
	fmt.Fprintln(w)
	return nil
}
