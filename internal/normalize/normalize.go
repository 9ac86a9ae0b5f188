// internal/normalize/normalize.go

// Package normalize converts raw license text into the canonical line and
// word form that the matcher compares.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"mvdan.cc/xurls/v2"
)

var urls = xurls.Relaxed()

// Text is normalized license text: an ordered sequence of non-empty lines,
// each holding lowercase alphanumeric words separated by single spaces.
// The zero value is the empty text.
type Text struct {
	lines []string
}

// Normalize returns the canonical form of raw. It is a pure function and
// Normalize(Normalize(raw).String()) equals Normalize(raw).
func Normalize(raw string) Text {
	raw = norm.NFKC.String(raw)
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = urls.ReplaceAllString(line, " ")
		words := Words(line)
		if len(words) == 0 || isCopyright(words) {
			continue
		}
		lines = append(lines, strings.Join(words, " "))
	}
	return Text{lines: lines}
}

// FromLines builds a Text from lines that are already normalized, such as
// those read back from a snapshot. Lines are re-normalized so the result
// is always canonical.
func FromLines(lines []string) Text {
	return Normalize(strings.Join(lines, "\n"))
}

// Lines returns a copy of the normalized lines.
func (t Text) Lines() []string {
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// Tokens returns the words of t in order, read across line boundaries.
func (t Text) Tokens() []string {
	var out []string
	for _, line := range t.lines {
		out = append(out, strings.Fields(line)...)
	}
	return out
}

// Len returns the number of lines.
func (t Text) Len() int { return len(t.lines) }

// IsEmpty reports whether t holds no words at all.
func (t Text) IsEmpty() bool { return len(t.lines) == 0 }

// Slice returns the lines [from, to) of t as a new Text.
func (t Text) Slice(from, to int) Text {
	if from < 0 {
		from = 0
	}
	if to > len(t.lines) {
		to = len(t.lines)
	}
	if from >= to {
		return Text{}
	}
	return Text{lines: t.lines[from:to:to]}
}

// String renders t as its lines joined by newlines.
func (t Text) String() string { return strings.Join(t.lines, "\n") }

// Equal reports whether t and u are the same normalized text.
func (t Text) Equal(u Text) bool {
	if len(t.lines) != len(u.lines) {
		return false
	}
	for i := range t.lines {
		if t.lines[i] != u.lines[i] {
			return false
		}
	}
	return true
}

// Words splits s into lowercase words. Any rune that is not a letter or a
// digit separates words; the copyright sign becomes the word "c".
func Words(s string) []string {
	var (
		words []string
		b     strings.Builder
	)
	flush := func() {
		if b.Len() == 0 {
			return
		}
		words = append(words, variant(b.String()))
		b.Reset()
	}
	for _, r := range s {
		switch {
		case r == '©':
			flush()
			words = append(words, "c")
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()
	return words
}

// variants maps alternate spellings found across license texts onto one
// form.
var variants = map[string]string{
	"licence":       "license",
	"licences":      "licenses",
	"licenced":      "licensed",
	"licencing":     "licensing",
	"licencor":      "licensor",
	"authorised":    "authorized",
	"organisation":  "organization",
	"organisations": "organizations",
	"favour":        "favor",
	"behaviour":     "behavior",
}

func variant(w string) string {
	if v, ok := variants[w]; ok {
		return v
	}
	return w
}

// isCopyright reports whether words form a copyright statement line such
// as "Copyright (c) 2021 Jane Doe" or "Copyright [yyyy] [name]". Holder
// names differ between every copy of a license, so these lines carry no
// signal.
func isCopyright(words []string) bool {
	if len(words) < 2 || words[0] != "copyright" {
		return false
	}
	for _, w := range words[1:] {
		switch {
		case w == "c", w == "year", w == "yyyy":
			return true
		case isYear(w):
			return true
		}
	}
	return false
}

func isYear(w string) bool {
	if len(w) != 4 || !(strings.HasPrefix(w, "19") || strings.HasPrefix(w, "20")) {
		return false
	}
	for _, r := range w {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
