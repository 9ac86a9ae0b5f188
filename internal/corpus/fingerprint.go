// internal/corpus/fingerprint.go
package corpus

import (
	"github.com/cespare/xxhash/v2"

	"github.com/dsablic/licenseid/internal/normalize"
)

// Fingerprint is the precomputed matching data for a normalized text: a
// digest of the whole text and the multiset of its word bigrams.
type Fingerprint struct {
	digest uint64
	grams  map[uint64]uint32
	total  int
}

// NewFingerprint computes the fingerprint of t.
func NewFingerprint(t normalize.Text) Fingerprint {
	tokens := t.Tokens()
	fp := Fingerprint{
		digest: Digest(t),
		grams:  make(map[uint64]uint32, len(tokens)),
	}
	var d xxhash.Digest
	for i := 0; i+1 < len(tokens); i++ {
		d.Reset()
		d.WriteString(tokens[i])
		d.Write([]byte{0})
		d.WriteString(tokens[i+1])
		fp.grams[d.Sum64()]++
		fp.total++
	}
	return fp
}

// Digest returns the xxhash64 of the rendered normalized text.
func Digest(t normalize.Text) uint64 {
	return xxhash.Sum64String(t.String())
}

// Digest returns the digest of the fingerprinted text.
func (fp Fingerprint) Digest() uint64 { return fp.digest }

// Total returns the number of bigrams, counting repeats.
func (fp Fingerprint) Total() int { return fp.total }

// Distinct returns the number of distinct bigrams.
func (fp Fingerprint) Distinct() int { return len(fp.grams) }

// Overlap returns the size of the multiset intersection of the bigrams of
// fp and other.
func (fp Fingerprint) Overlap(other Fingerprint) int {
	small, large := fp.grams, other.grams
	if len(small) > len(large) {
		small, large = large, small
	}
	var n int
	for g, c := range small {
		if oc, ok := large[g]; ok {
			n += int(min(c, oc))
		}
	}
	return n
}
