// internal/model/model.go
package model

import "fmt"

// Match is the result of identifying a text: the most similar known license
// and a similarity score in [0, 1]. A low score means no recognized license;
// what counts as low is left to the caller.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// String formats the match as "MIT (score: 0.9876)".
func (m Match) String() string {
	return fmt.Sprintf("%s (score: %.4f)", m.Name, m.Score)
}

// GoString formats the match for %#v with the score rounded the same way
// as String, e.g. model.Match{Name:"MIT", Score:0.9876}.
func (m Match) GoString() string {
	return fmt.Sprintf("model.Match{Name:%q, Score:%.4f}", m.Name, m.Score)
}

// Region is a match restricted to a line range [Start, End) of the
// normalized query text.
type Region struct {
	Match
	Start int `json:"start_line"`
	End   int `json:"end_line"`
}

// GoString keeps the line range in %#v output, which would otherwise use the
// embedded Match's GoString.
func (r Region) GoString() string {
	return fmt.Sprintf("model.Region{Match:%#v, Start:%d, End:%d}", r.Match, r.Start, r.End)
}

// CrossCheck holds what external detectors report for the same input.
type CrossCheck struct {
	Detector   string  `json:"detector"`
	License    string  `json:"license,omitempty"`
	Confidence float64 `json:"confidence"`
}

// FileKind classifies a scanned file.
type FileKind string

const (
	KindLicense FileKind = "license"
	KindHeader  FileKind = "header"
)

// FileResult is the identification of a single scanned file.
type FileResult struct {
	Path       string   `json:"path"`
	Kind       FileKind `json:"kind"`
	Language   string   `json:"language,omitempty"`
	Match      Match    `json:"match"`
	Recognized bool     `json:"recognized"`
}

// FileError records a file that could not be read.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// LicenseCount aggregates recognized files for one license.
type LicenseCount struct {
	Name  string `json:"name"`
	Files int    `json:"files"`
}

// ScanReport is the output of scanning a directory or repository.
type ScanReport struct {
	GeneratedAt string         `json:"generated_at"`
	Source      string         `json:"source"`
	Threshold   float64        `json:"threshold"`
	Corpus      int            `json:"corpus_size"`
	Files       []FileResult   `json:"files"`
	Licenses    []LicenseCount `json:"licenses"`
	Unknown     int            `json:"unknown"`
	CrossChecks []CrossCheck   `json:"cross_checks,omitempty"`
	Errors      []FileError    `json:"errors,omitempty"`
}

// EntryInfo describes one corpus entry for listing.
type EntryInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Lines   int      `json:"lines"`
	Bigrams int      `json:"bigrams"`
}

// CorpusInfo describes a loaded corpus.
type CorpusInfo struct {
	Source  string      `json:"source"`
	Format  uint16      `json:"format_version,omitempty"`
	Bytes   int         `json:"bytes,omitempty"`
	Entries []EntryInfo `json:"entries"`
}
