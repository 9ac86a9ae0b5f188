// internal/match/locate.go
package match

import (
	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/model"
	"github.com/dsablic/licenseid/internal/normalize"
)

// Locate finds the line range of query that best matches e, for license
// text embedded in a larger file such as a README or a source header.
//
// The window starts as the whole query. Its top edge is moved down to the
// position with the best score, then its bottom edge is moved up the same
// way. Only strictly better scores move an edge, so the widest window wins
// ties.
func Locate(query normalize.Text, e corpus.Entry) model.Region {
	return locate(NewQuery(query), e)
}

func locate(q Query, e corpus.Entry) model.Region {
	query := q.Text()
	n := query.Len()
	best := model.Region{
		Match: model.Match{Name: e.Name(), Score: Score(q, e)},
		Start: 0,
		End:   n,
	}
	if n <= 1 || best.Score == 1 {
		return best
	}

	for start := 1; start < n; start++ {
		s := Score(NewQuery(query.Slice(start, n)), e)
		if s > best.Score {
			best.Score = s
			best.Start = start
		}
	}
	for end := n - 1; end > best.Start; end-- {
		s := Score(NewQuery(query.Slice(best.Start, end)), e)
		if s > best.Score {
			best.Score = s
			best.End = end
		}
	}
	return best
}

// LocateBest identifies query against store and then narrows the result to
// the best matching region.
func LocateBest(query normalize.Text, store *corpus.Store) model.Region {
	q := NewQuery(query)
	m := AnalyzeQuery(q, store)
	e, _ := store.Lookup(m.Name)
	return locate(q, e)
}
