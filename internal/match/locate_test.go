// internal/match/locate_test.go
package match_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dsablic/licenseid/internal/match"
	"github.com/dsablic/licenseid/internal/normalize"
)

func TestLocateEmbeddedLicense(t *testing.T) {
	store := builtinStore(t)
	readme := "# Project\n\nA tool that does things.\n\n## Usage\n\nRun it with flags.\n\n## License\n\n" +
		referenceText(t, "ISC") +
		"\n\n## Contributing\n\nPull requests welcome. Please open an issue first.\n"
	query := normalize.Normalize(readme)

	whole := match.Analyze(query, store)
	region := match.LocateBest(query, store)
	if region.Name != "ISC" {
		t.Fatalf("expected ISC region, got %v", region)
	}
	if region.Score != 1 {
		t.Errorf("expected exact region score, got %v", region.Score)
	}
	if region.Score < whole.Score {
		t.Errorf("region score %v below whole-text score %v", region.Score, whole.Score)
	}
	if region.Start == 0 || region.End == query.Len() {
		t.Errorf("expected region to exclude surrounding text, got [%d, %d) of %d", region.Start, region.End, query.Len())
	}
	got := query.Slice(region.Start, region.End).String()
	if !strings.HasPrefix(got, "isc license") {
		t.Errorf("region should start at the license title, got %q", got)
	}
}

func TestLocateWholeText(t *testing.T) {
	store := builtinStore(t)
	e, _ := store.Lookup("MIT")
	query := normalize.Normalize(referenceText(t, "MIT"))
	region := match.Locate(query, e)
	if region.Start != 0 || region.End != query.Len() || region.Score != 1 {
		t.Errorf("expected whole text region, got %+v", region)
	}
}

func TestLocateBestAgreesWithAnalyze(t *testing.T) {
	store := builtinStore(t)
	query := normalize.Normalize("Licensed under the terms below.\n\n" + referenceText(t, "BSD-2-Clause"))
	q := match.NewQuery(query)
	m := match.AnalyzeQuery(q, store)
	if m != match.Analyze(query, store) {
		t.Errorf("AnalyzeQuery %v differs from Analyze", m)
	}
	e, _ := store.Lookup(m.Name)
	if got, want := match.LocateBest(query, store), match.Locate(query, e); got != want {
		t.Errorf("LocateBest = %+v, want %+v", got, want)
	}
}

func TestLocateEmpty(t *testing.T) {
	store := builtinStore(t)
	region := match.LocateBest(normalize.Normalize(""), store)
	if region.Score != 0 || region.Start != 0 || region.End != 0 {
		t.Errorf("expected empty region, got %+v", region)
	}
}

func TestDiff(t *testing.T) {
	store := builtinStore(t)
	e, _ := store.Lookup("MIT")
	changed := strings.Replace(referenceText(t, "MIT"), "merge", "combine", 1)
	edits := match.Diff(normalize.Normalize(changed), e)

	var inserts, deletes int
	for _, ed := range edits {
		switch ed.Op {
		case match.Insert:
			inserts++
			if !strings.Contains(ed.Line, "combine") {
				t.Errorf("unexpected inserted line %q", ed.Line)
			}
		case match.Delete:
			deletes++
			if !strings.Contains(ed.Line, "merge") {
				t.Errorf("unexpected deleted line %q", ed.Line)
			}
		}
	}
	if inserts != 1 || deletes != 1 {
		t.Errorf("expected one changed line, got %d inserts and %d deletes", inserts, deletes)
	}

	out := match.FormatDiff(edits)
	if !strings.Contains(out, "- to use copy modify merge") || !strings.Contains(out, "+ to use copy modify combine") {
		t.Errorf("unexpected diff output:\n%s", out)
	}
}

func TestDiffIdentical(t *testing.T) {
	store := builtinStore(t)
	e, _ := store.Lookup("Zlib")
	for _, ed := range match.Diff(e.Text(), e) {
		if ed.Op != match.Equal {
			t.Fatalf("expected no changes, got %+v", ed)
		}
	}
}

func TestEditJSON(t *testing.T) {
	b, err := json.Marshal([]match.Edit{{Op: match.Delete, Line: "a b"}, {Op: match.Equal, Line: "c"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"op":"delete","line":"a b"},{"op":"equal","line":"c"}]`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}
