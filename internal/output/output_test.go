// internal/output/output_test.go
package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dsablic/licenseid/internal/model"
	"github.com/dsablic/licenseid/internal/output"
)

func sampleReport() model.ScanReport {
	return model.ScanReport{
		GeneratedAt: "2026-02-18T12:00:00Z",
		Source:      "/src/project",
		Threshold:   0.9,
		Corpus:      11,
		Files: []model.FileResult{
			{Path: "LICENSE", Kind: model.KindLicense, Match: model.Match{Name: "MIT", Score: 1}, Recognized: true},
			{Path: "cmd/main.go", Kind: model.KindHeader, Language: "Go", Match: model.Match{Name: "Apache-2.0", Score: 0.97}, Recognized: true},
			{Path: "COPYING", Kind: model.KindLicense, Match: model.Match{Name: "WTFPL", Score: 0.12}},
		},
		Licenses: []model.LicenseCount{{Name: "Apache-2.0", Files: 1}, {Name: "MIT", Files: 1}},
		Unknown:  1,
		CrossChecks: []model.CrossCheck{
			{Detector: "licensecheck", License: "MIT", Confidence: 0.98},
		},
		Errors: []model.FileError{{Path: "secret/LICENSE", Error: "permission denied"}},
	}
}

func sampleCorpus() model.CorpusInfo {
	return model.CorpusInfo{
		Source: "corpus.bin",
		Format: 1,
		Bytes:  4096,
		Entries: []model.EntryInfo{
			{Name: "Apache-2.0", Aliases: []string{"Apache 2.0", "ASL 2.0"}, Lines: 160, Bigrams: 1500},
			{Name: "MIT", Aliases: []string{"Expat"}, Lines: 17, Bigrams: 160},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	report := sampleReport()
	var buf bytes.Buffer
	if err := output.WriteJSON(&buf, report); err != nil {
		t.Fatalf("failed to write JSON: %v", err)
	}

	var decoded model.ScanReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(report, decoded); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WriteMarkdown(&buf, sampleReport()); err != nil {
		t.Fatalf("failed to write markdown: %v", err)
	}

	md := buf.String()
	for _, want := range []string{"`cmd/main.go`", "Apache-2.0", "_unrecognized_ (closest: WTFPL)", "## Cross-check", "**secret/LICENSE**", "|"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown should contain %q", want)
		}
	}
}

func TestWriteMarkdownOmitsEmptySections(t *testing.T) {
	report := sampleReport()
	report.CrossChecks = nil
	report.Errors = nil
	var buf bytes.Buffer
	if err := output.WriteMarkdown(&buf, report); err != nil {
		t.Fatalf("failed to write markdown: %v", err)
	}
	md := buf.String()
	if strings.Contains(md, "## Cross-check") || strings.Contains(md, "## Errors") {
		t.Error("markdown should omit empty sections")
	}
}

func TestWriteCorpusMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WriteCorpusMarkdown(&buf, sampleCorpus()); err != nil {
		t.Fatalf("failed to write markdown: %v", err)
	}
	md := buf.String()
	if !strings.Contains(md, "| Apache-2.0 | Apache 2.0, ASL 2.0 | 160 | 1500 |") {
		t.Errorf("markdown should list Apache-2.0 with aliases, got:\n%s", md)
	}
	if !strings.Contains(md, "**Format version:** 1") {
		t.Error("markdown should contain the format version")
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WriteText(&buf, sampleReport()); err != nil {
		t.Fatalf("failed to write text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"/src/project: 3 files, 1 unrecognized", "cmd/main.go", "? WTFPL", "licensecheck", "error: secret/LICENSE"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteCorpusText(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WriteCorpusText(&buf, sampleCorpus()); err != nil {
		t.Fatalf("failed to write text: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "corpus.bin: 2 licenses") || !strings.Contains(out, "Expat") {
		t.Errorf("unexpected corpus listing:\n%s", out)
	}
}

func TestWriteMatches(t *testing.T) {
	var buf bytes.Buffer
	matches := []model.Match{{Name: "MIT", Score: 0.95}, {Name: "MIT-0", Score: 0.8}}
	if err := output.WriteMatches(&buf, matches, 0.9); err != nil {
		t.Fatalf("WriteMatches: %v", err)
	}
	want := "MIT (score: 0.9500)\nMIT-0 (score: 0.8000) (below threshold)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
