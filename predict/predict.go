package predict

import (
	"fmt"
	"sort"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/syllable"
)

// Scorer gives the probability of a consonant sequence on one side of a
// syllable boundary. *phonotactic.Model implements it.
type Scorer interface {
	Prob(c cluster.Cluster) float64
}

// Options controls Independent.
type Options struct {
	// Normalize rescales the joint scores of a cluster to sum to 1.
	Normalize bool
	// WithComponents also returns the coda-only and onset-only scores,
	// each normalized on its own when Normalize is set.
	WithComponents bool
}

// DefaultOptions returns normalized joint predictions without components.
func DefaultOptions() Options {
	return Options{Normalize: true}
}

// Prediction is the result of Independent.
type Prediction struct {
	Joint Distribution
	Coda  Distribution // set when Options.WithComponents
	Onset Distribution // set when Options.WithComponents

	// AllZero is set when normalization was requested but no split had any
	// joint mass. Joint is then left all zero.
	AllZero bool
	// MissingCodas and MissingOnsets count the splits whose coda or onset
	// had probability 0.
	MissingCodas  int
	MissingOnsets int
}

// Independent scores every split of c as P(coda) * P(onset). An empty c has
// the single split () + ().
func Independent(c cluster.Cluster, onsets, codas Scorer, opts Options) (Prediction, error) {
	pred := Prediction{Joint: newDistribution(c)}
	if opts.WithComponents {
		pred.Coda = newDistribution(c)
		pred.Onset = newDistribution(c)
	}

	for _, code := range cluster.SplitCodes(len(c)) {
		split, err := cluster.CodaOnset(code, c)
		if err != nil {
			return Prediction{}, err
		}
		codaP := codas.Prob(split.Coda)
		onsetP := onsets.Prob(split.Onset)
		if codaP == 0 {
			pred.MissingCodas++
		}
		if onsetP == 0 {
			pred.MissingOnsets++
		}
		pred.Joint.Probs[code] = codaP * onsetP
		if opts.WithComponents {
			pred.Coda.Probs[code] = codaP
			pred.Onset.Probs[code] = onsetP
		}
	}

	if opts.Normalize {
		if !pred.Joint.Normalize() {
			pred.AllZero = true
		}
		if opts.WithComponents {
			pred.Coda.Normalize()
			pred.Onset.Normalize()
		}
	}
	return pred, nil
}

// OnsetMaximization returns a distribution with probability 1 on the split
// the syllabifier chooses for c between two vowels.
func OnsetMaximization(c cluster.Cluster, s *syllable.Syllabifier) (Distribution, error) {
	n, err := s.SplitCluster(c)
	if err != nil {
		return Distribution{}, err
	}
	code, ok := cluster.CodeForCoda(n)
	if !ok {
		return Distribution{}, &cluster.InvalidCodeError{Cluster: c, Code: cluster.Code(n + 1)}
	}
	return degenerate(c, code), nil
}

// MorphemeAligned puts probability 1 on the split at a morpheme boundary.
// boundary indexes the full transcription. When known is false the result is
// Uniform; when the boundary falls outside the cluster every split gets 0.
func MorphemeAligned(m cluster.Medial, boundary int, known bool) Distribution {
	if !known {
		return Uniform(m.Cluster)
	}
	offset := boundary - m.Start
	code, ok := cluster.CodeForCoda(offset)
	if !ok || offset > len(m.Cluster) {
		return newDistribution(m.Cluster)
	}
	return degenerate(m.Cluster, code)
}

// Key identifies a distribution in a Set. Word is empty when predictions are
// shared by every word with the same cluster.
type Key struct {
	Word    string
	Cluster string
}

// KeyFor returns the Set key for c, scoped to word when word is not empty.
func KeyFor(word string, c cluster.Cluster) Key {
	return Key{Word: word, Cluster: c.Key()}
}

// Set holds one distribution per cluster or per (word, cluster).
type Set map[Key]Distribution

// Lookup returns the distribution for (word, c), falling back to the
// cluster-only entry.
func (s Set) Lookup(word string, c cluster.Cluster) (Distribution, bool) {
	if word != "" {
		if d, ok := s[KeyFor(word, c)]; ok {
			return d, true
		}
	}
	d, ok := s[KeyFor("", c)]
	return d, ok
}

// Keys returns the keys sorted by cluster then word.
func (s Set) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Cluster != keys[j].Cluster {
			return keys[i].Cluster < keys[j].Cluster
		}
		return keys[i].Word < keys[j].Word
	})
	return keys
}

// Smooth adds lambda to every split score and renormalizes each cluster.
// lambda 0 returns s unchanged.
func Smooth(s Set, lambda float64) (Set, error) {
	if lambda < 0 {
		return nil, fmt.Errorf("smooth: negative lambda %g", lambda)
	}
	if lambda == 0 {
		return s, nil
	}
	out := make(Set, len(s))
	for k, d := range s {
		sm := d.Clone()
		for _, code := range sm.Codes() {
			sm.Probs[code] += lambda
		}
		sm.Normalize()
		out[k] = sm
	}
	return out, nil
}
