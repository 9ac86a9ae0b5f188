// internal/match/diff.go
package match

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/normalize"
)

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	}
	return "equal"
}

func (o Op) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Edit is one line of a line diff between a license and a query.
type Edit struct {
	Op   Op     `json:"op"`
	Line string `json:"line"`
}

// Diff returns the line diff from the normalized text of e to query:
// Delete lines appear only in the license, Insert lines only in the query.
func Diff(query normalize.Text, e corpus.Entry) []Edit {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(withNewline(e.Text()), withNewline(query))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var edits []Edit
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = Insert
		case diffmatchpatch.DiffDelete:
			op = Delete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			edits = append(edits, Edit{Op: op, Line: strings.TrimSuffix(line, "\n")})
		}
	}
	return edits
}

// FormatDiff renders edits with "- ", "+ " and "  " line prefixes.
func FormatDiff(edits []Edit) string {
	var b strings.Builder
	for _, e := range edits {
		switch e.Op {
		case Insert:
			b.WriteString("+ ")
		case Delete:
			b.WriteString("- ")
		default:
			b.WriteString("  ")
		}
		b.WriteString(e.Line)
		b.WriteByte('\n')
	}
	return b.String()
}

func withNewline(t normalize.Text) string {
	if t.IsEmpty() {
		return ""
	}
	return t.String() + "\n"
}
