// internal/corpus/store.go

// Package corpus holds the read-only collection of known license texts that
// queries are matched against.
package corpus

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/dsablic/licenseid/internal/normalize"
)

var (
	// ErrEmptyCorpus is returned when a store would hold no entries.
	ErrEmptyCorpus = errors.New("corpus has no entries")
	// ErrDuplicateName is returned when two entries share a name or alias.
	ErrDuplicateName = errors.New("duplicate license name")
	// ErrEmptyText is returned for an entry whose normalized text is empty.
	ErrEmptyText = errors.New("license text is empty after normalization")
	// ErrEmptyName is returned for an entry without a name.
	ErrEmptyName = errors.New("license name is empty")
)

// Entry is one known license.
type Entry struct {
	name    string
	aliases []string
	text    normalize.Text
	fp      Fingerprint
}

// NewEntry builds an entry from already normalized text.
func NewEntry(name string, text normalize.Text, aliases ...string) Entry {
	a := slices.Clone(aliases)
	sort.Strings(a)
	return Entry{
		name:    name,
		aliases: slices.Compact(a),
		text:    text,
		fp:      NewFingerprint(text),
	}
}

// Name returns the license identifier, e.g. "MIT".
func (e Entry) Name() string { return e.name }

// Aliases returns a copy of the alternate names of the license.
func (e Entry) Aliases() []string { return slices.Clone(e.aliases) }

// Text returns the normalized reference text.
func (e Entry) Text() normalize.Text { return e.text }

// Fingerprint returns the precomputed matching data of the entry.
func (e Entry) Fingerprint() Fingerprint { return e.fp }

// Store is an immutable, name-ordered collection of entries. It has no
// mutating methods and is safe for concurrent use.
type Store struct {
	entries []Entry
	index   map[string]int
}

// NewStore validates entries and returns a store ordered by name. It fails
// when entries is empty, when a name or alias is repeated (compared case
// insensitively) or when an entry has an empty name or text.
func NewStore(entries []Entry) (*Store, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}
	sorted := slices.Clone(entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	s := &Store{entries: sorted, index: make(map[string]int, len(sorted))}
	for i, e := range sorted {
		if strings.TrimSpace(e.name) == "" {
			return nil, ErrEmptyName
		}
		if e.text.IsEmpty() {
			return nil, fmt.Errorf("%s: %w", e.name, ErrEmptyText)
		}
		for _, key := range append([]string{e.name}, e.aliases...) {
			k := strings.ToLower(key)
			if j, ok := s.index[k]; ok && j != i {
				return nil, fmt.Errorf("%s (also %s): %w", key, sorted[j].name, ErrDuplicateName)
			}
			s.index[k] = i
		}
	}
	return s, nil
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// At returns the i-th entry in name order.
func (s *Store) At(i int) Entry { return s.entries[i] }

// Entries returns the entries in name order.
func (s *Store) Entries() []Entry { return slices.Clone(s.entries) }

// Names returns the entry names in order.
func (s *Store) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// Lookup finds an entry by name or alias, ignoring case.
func (s *Store) Lookup(name string) (Entry, bool) {
	i, ok := s.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Suggest returns up to n entry names closest to name by edit distance over
// names and aliases, nearest first.
func (s *Store) Suggest(name string, n int) []string {
	type scored struct {
		name string
		dist int
	}
	query := strings.ToLower(strings.TrimSpace(name))
	best := make(map[string]int, len(s.entries))
	for key, i := range s.index {
		d := levenshtein.ComputeDistance(query, key)
		entry := s.entries[i].name
		if cur, ok := best[entry]; !ok || d < cur {
			best[entry] = d
		}
	}
	out := make([]scored, 0, len(best))
	for entry, d := range best {
		out = append(out, scored{entry, d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].dist != out[j].dist {
			return out[i].dist < out[j].dist
		}
		return out[i].name < out[j].name
	})
	if n < len(out) {
		out = out[:max(n, 0)]
	}
	names := make([]string, len(out))
	for i, o := range out {
		names[i] = o.name
	}
	return names
}
