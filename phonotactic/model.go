package phonotactic

import (
	"sort"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/internal/mathutil"
)

// Model is a length-conditioned probability distribution over consonant
// sequences: P(c) = P(c | len(c)) * P(len(c)), renormalized.
type Model struct {
	probs       map[string]float64
	lengthProbs map[int]float64
}

// Build computes a Model from a frequency table.
//
// lengthSmoothing is added to the total count of every observed length before
// P(length) is computed; 0 disables it. Within a length no smoothing is done:
// a sequence absent from the table has probability 0.
func Build(t *Table, lengthSmoothing float64) *Model {
	m := &Model{
		probs:       make(map[string]float64),
		lengthProbs: make(map[int]float64),
	}

	// Partition by length. Keys are sorted so every sum below runs in the
	// same order on every build.
	byLength := make(map[int][]string)
	for _, k := range t.sortedKeys() {
		n := keyLen(k)
		byLength[n] = append(byLength[n], k)
	}
	lengths := make([]int, 0, len(byLength))
	for n := range byLength {
		lengths = append(lengths, n)
	}
	sort.Ints(lengths)

	// P(length)
	smoothed := make([]float64, len(lengths))
	for i, n := range lengths {
		smoothed[i] = float64(t.sumCounts(byLength[n])) + lengthSmoothing
	}
	norm := mathutil.Sum(smoothed)
	for i, n := range lengths {
		if norm != 0 {
			m.lengthProbs[n] = smoothed[i] / norm
		} else {
			m.lengthProbs[n] = 0
		}
	}

	// P(c | length) * P(length)
	keys := make([]string, 0, t.Len())
	joint := make([]float64, 0, t.Len())
	for _, n := range lengths {
		lengthTotal := float64(t.sumCounts(byLength[n]))
		for _, k := range byLength[n] {
			p := 0.0
			if lengthTotal != 0 {
				p = float64(t.counts[k]) / lengthTotal * m.lengthProbs[n]
			}
			keys = append(keys, k)
			joint = append(joint, p)
		}
	}
	mathutil.Normalize(joint)
	for i, k := range keys {
		m.probs[k] = joint[i]
	}
	return m
}

// Proportions returns count/total for every sequence, with no length
// conditioning.
func Proportions(t *Table) *Model {
	m := &Model{
		probs:       make(map[string]float64),
		lengthProbs: make(map[int]float64),
	}
	total := float64(t.Total())
	for _, k := range t.sortedKeys() {
		if total != 0 {
			m.probs[k] = float64(t.counts[k]) / total
		} else {
			m.probs[k] = 0
		}
		m.lengthProbs[keyLen(k)] += m.probs[k]
	}
	return m
}

func (t *Table) sumCounts(keys []string) int {
	total := 0
	for _, k := range keys {
		total += t.counts[k]
	}
	return total
}

// Prob returns P(c); sequences not in the table give 0.
func (m *Model) Prob(c cluster.Cluster) float64 {
	return m.probs[c.Key()]
}

// Has reports whether c has an entry.
func (m *Model) Has(c cluster.Cluster) bool {
	_, ok := m.probs[c.Key()]
	return ok
}

// LengthProb returns the smoothed P(length = n).
func (m *Model) LengthProb(n int) float64 {
	return m.lengthProbs[n]
}

// Len returns the number of sequences with an entry.
func (m *Model) Len() int { return len(m.probs) }
