// internal/match/match.go

// Package match scores normalized query texts against a corpus.
//
// The score between a query and a license is the Sorensen-Dice coefficient
// of their word bigram multisets:
//
//	score = 2 * |Q ∩ E| / (|Q| + |E|)
//
// It is 1 for identical normalized texts and 0 for texts sharing no
// bigram. The best match is the entry with the highest score; entries are
// visited in name order and only a strictly higher score replaces the
// current best, so ties go to the smallest name.
package match

import (
	"math"
	"sort"

	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/model"
	"github.com/dsablic/licenseid/internal/normalize"
)

// Query is a normalized text prepared for scoring against many entries.
type Query struct {
	text normalize.Text
	fp   corpus.Fingerprint
}

// NewQuery fingerprints t.
func NewQuery(t normalize.Text) Query {
	return Query{text: t, fp: corpus.NewFingerprint(t)}
}

// Text returns the normalized query text.
func (q Query) Text() normalize.Text { return q.text }

// belowOne is the highest score of texts that are not identical. Texts with
// equal bigram multisets in a different order would otherwise score 1.
var belowOne = math.Nextafter(1, 0)

// Score returns the similarity of q and e in [0, 1]. It is 1 only when the
// normalized texts are identical.
func Score(q Query, e corpus.Entry) float64 {
	efp := e.Fingerprint()
	if q.fp.Digest() == efp.Digest() && q.text.Equal(e.Text()) {
		return 1
	}
	denom := q.fp.Total() + efp.Total()
	if denom == 0 {
		return 0
	}
	return min(float64(2*q.fp.Overlap(efp))/float64(denom), belowOne)
}

// bound is the highest score q could reach against e given only the bigram
// counts. It shares its denominator with Score, so Score(q, e) <= bound(q, e)
// holds exactly in floating point.
func bound(q Query, e corpus.Entry) float64 {
	efp := e.Fingerprint()
	denom := q.fp.Total() + efp.Total()
	if denom == 0 {
		return 1
	}
	return float64(2*min(q.fp.Total(), efp.Total())) / float64(denom)
}

// Analyze returns the entry of store most similar to query. It never fails:
// an empty or unrelated query yields a low score against the first entry
// in name order. Entries whose length rules out beating the current best
// are skipped; the result is identical to AnalyzeNaive.
func Analyze(query normalize.Text, store *corpus.Store) model.Match {
	return analyze(NewQuery(query), store, true)
}

// AnalyzeNaive is Analyze without length pruning.
func AnalyzeNaive(query normalize.Text, store *corpus.Store) model.Match {
	return analyze(NewQuery(query), store, false)
}

// AnalyzeQuery is Analyze for an already fingerprinted query.
func AnalyzeQuery(q Query, store *corpus.Store) model.Match {
	return analyze(q, store, true)
}

func analyze(q Query, store *corpus.Store, prune bool) model.Match {
	best := model.Match{Name: store.At(0).Name(), Score: -1}
	for i := 0; i < store.Len(); i++ {
		e := store.At(i)
		if prune && bound(q, e) <= best.Score {
			continue
		}
		if s := Score(q, e); s > best.Score {
			best = model.Match{Name: e.Name(), Score: s}
			if s == 1 {
				break
			}
		}
	}
	return best
}

// Rank returns up to n entries ordered by descending score, ties by name.
// A non-positive n ranks every entry.
func Rank(query normalize.Text, store *corpus.Store, n int) []model.Match {
	q := NewQuery(query)
	out := make([]model.Match, store.Len())
	for i := range out {
		e := store.At(i)
		out[i] = model.Match{Name: e.Name(), Score: Score(q, e)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
