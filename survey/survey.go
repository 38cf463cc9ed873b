// Package survey holds syllabification judgements collected from speakers:
// for each word and medial cluster, how many responses placed the syllable
// boundary at each position.
package survey

import (
	"sort"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/internal/mathutil"
	"github.com/ieee0824/syllabify-go/phone"
	"github.com/ieee0824/syllabify-go/predict"
)

// Observation is the response tally for one boundary code of one cluster.
type Observation struct {
	Word                string
	Transcription       phone.Transcription // stress stripped
	StressTranscription phone.Transcription // as given, set when stress was checked
	Cluster             cluster.Cluster
	Start               int // index of the cluster in Transcription
	Code                cluster.Code
	Split               cluster.Split
	Responses           int
	Proportion          float64

	// Filled when stress is checked: the vowel before the cluster.
	HasStress         bool
	PrecedingStressed bool
	LaxVowel          bool
}

// Medial returns the cluster with its position.
func (o Observation) Medial() cluster.Medial {
	return cluster.Medial{Cluster: o.Cluster, Start: o.Start}
}

// Set groups observations by cluster, or by word and cluster.
type Set struct {
	groups map[predict.Key][]Observation
	order  []predict.Key
	// Skipped lists words whose transcription had no medial cluster.
	Skipped []string
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{groups: make(map[predict.Key][]Observation)}
}

// Add appends o under k.
func (s *Set) Add(k predict.Key, o Observation) {
	if _, ok := s.groups[k]; !ok {
		s.order = append(s.order, k)
	}
	s.groups[k] = append(s.groups[k], o)
}

// Keys returns the group keys in first-seen order.
func (s *Set) Keys() []predict.Key { return s.order }

// Group returns the observations stored under k.
func (s *Set) Group(k predict.Key) []Observation { return s.groups[k] }

// Len returns the number of groups.
func (s *Set) Len() int { return len(s.order) }

// All returns every observation in group order.
func (s *Set) All() []Observation {
	var out []Observation
	for _, k := range s.order {
		out = append(out, s.groups[k]...)
	}
	return out
}

// Targets returns one prediction target per distinct word and cluster.
func (s *Set) Targets() []predict.Target {
	type wc struct{ word, cluster string }
	seen := make(map[wc]bool)
	var out []predict.Target
	for _, o := range s.All() {
		k := wc{o.Word, o.Cluster.Key()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, predict.Target{Word: o.Word, Medial: o.Medial()})
	}
	return out
}

// Consolidated merges each cluster's observations across words. The result
// is keyed by cluster only.
func (s *Set) Consolidated() *Set {
	byCluster := make(map[string][]Observation)
	var clusters []string
	for _, o := range s.All() {
		k := o.Cluster.Key()
		if _, ok := byCluster[k]; !ok {
			clusters = append(clusters, k)
		}
		byCluster[k] = append(byCluster[k], o)
	}
	sort.Strings(clusters)

	out := NewSet()
	out.Skipped = s.Skipped
	for _, k := range clusters {
		c := cluster.ParseCluster(k)
		for _, o := range Consolidate(c, byCluster[k]) {
			out.Add(predict.KeyFor("", c), o)
		}
	}
	return out
}

// Consolidate sums the responses and proportions of obs per boundary code
// and renormalizes the proportions over every code valid for c, unknown
// included. If the summed proportions are all zero the proportions are
// taken from the response counts instead.
func Consolidate(c cluster.Cluster, obs []Observation) []Observation {
	codes := cluster.ValidCodes(len(c))
	out := make([]Observation, len(codes))
	props := make([]float64, len(codes))
	counts := make([]float64, len(codes))
	for i, code := range codes {
		split, _ := cluster.CodaOnset(code, c)
		out[i] = Observation{Cluster: c, Code: code, Split: split}
		for _, o := range obs {
			if o.Code != code {
				continue
			}
			out[i].Responses += o.Responses
			props[i] += o.Proportion
		}
		counts[i] = float64(out[i].Responses)
	}
	if !mathutil.Normalize(props) {
		props = counts
		mathutil.Normalize(props)
	}
	for i := range out {
		out[i].Proportion = props[i]
	}
	return out
}
