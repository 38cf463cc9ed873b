// Package predict turns consonant-sequence probabilities, onset
// maximization and morpheme boundaries into distributions over the
// syllable boundary codes of a medial cluster.
package predict

import (
	"fmt"
	"math"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/internal/mathutil"
)

// Distribution assigns a score to every valid non-unknown boundary code of a
// cluster.
type Distribution struct {
	Cluster    cluster.Cluster
	Probs      map[cluster.Code]float64
	Normalized bool
}

// newDistribution returns an all-zero distribution over the split codes of c.
func newDistribution(c cluster.Cluster) Distribution {
	d := Distribution{Cluster: c, Probs: make(map[cluster.Code]float64)}
	for _, code := range cluster.SplitCodes(len(c)) {
		d.Probs[code] = 0
	}
	return d
}

// Codes returns the codes of d in split order.
func (d Distribution) Codes() []cluster.Code {
	return cluster.SplitCodes(len(d.Cluster))
}

// Prob returns the score of code, or 0 if code is not valid for the cluster.
func (d Distribution) Prob(code cluster.Code) float64 {
	return d.Probs[code]
}

// ProbOf returns the score of the split coda.onset. ok is false when the pair
// does not decompose the cluster.
func (d Distribution) ProbOf(coda, onset cluster.Cluster) (float64, bool) {
	code, err := cluster.CodeOf(cluster.Split{Coda: coda, Onset: onset}, d.Cluster)
	if err != nil || code.IsUnknown() {
		return 0, false
	}
	p, ok := d.Probs[code]
	return p, ok
}

// Sum returns the total score over the valid codes.
func (d Distribution) Sum() float64 {
	return mathutil.Sum(d.values())
}

// Normalize rescales d in place to sum to 1. It returns false and leaves d
// unchanged when the total is 0.
func (d *Distribution) Normalize() bool {
	codes := d.Codes()
	xs := d.values()
	if !mathutil.Normalize(xs) {
		return false
	}
	for i, code := range codes {
		d.Probs[code] = xs[i]
	}
	d.Normalized = true
	return true
}

// IsZero reports whether every score is 0.
func (d Distribution) IsZero() bool {
	for _, p := range d.Probs {
		if p != 0 {
			return false
		}
	}
	return true
}

// Best returns the highest scoring code. Ties go to the code with the
// shorter coda.
func (d Distribution) Best() (cluster.Code, float64) {
	best, bestP := cluster.CodeUnknown, math.Inf(-1)
	for _, code := range d.Codes() {
		if p := d.Probs[code]; p > bestP {
			best, bestP = code, p
		}
	}
	if best == cluster.CodeUnknown {
		return best, 0
	}
	return best, bestP
}

// Clone returns a deep copy of d.
func (d Distribution) Clone() Distribution {
	out := Distribution{Cluster: d.Cluster, Normalized: d.Normalized, Probs: make(map[cluster.Code]float64, len(d.Probs))}
	for code, p := range d.Probs {
		out.Probs[code] = p
	}
	return out
}

func (d Distribution) String() string {
	s := d.Cluster.String() + " {"
	for i, code := range d.Codes() {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s:%g", code, d.Probs[code])
	}
	return s + "}"
}

// values returns the scores in split order.
func (d Distribution) values() []float64 {
	codes := d.Codes()
	xs := make([]float64, len(codes))
	for i, code := range codes {
		xs[i] = d.Probs[code]
	}
	return xs
}

// Uniform spreads probability evenly over the valid non-unknown codes of c.
func Uniform(c cluster.Cluster) Distribution {
	d := newDistribution(c)
	p := 1 / float64(len(d.Probs))
	for code := range d.Probs {
		d.Probs[code] = p
	}
	d.Normalized = true
	return d
}

// degenerate puts all mass on code.
func degenerate(c cluster.Cluster, code cluster.Code) Distribution {
	d := newDistribution(c)
	if _, ok := d.Probs[code]; ok {
		d.Probs[code] = 1
		d.Normalized = true
	}
	return d
}
