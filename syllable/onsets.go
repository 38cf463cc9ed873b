// Package syllable segments transcriptions into syllables by onset
// maximization.
package syllable

import (
	"sort"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/phonotactic"
)

// OnsetSet is the set of legal onsets. The empty onset is always legal.
type OnsetSet struct {
	onsets map[string]struct{}
	maxLen int
}

// NewOnsetSet creates a set from explicit onsets.
func NewOnsetSet(onsets ...cluster.Cluster) *OnsetSet {
	s := &OnsetSet{onsets: map[string]struct{}{"": {}}}
	for _, o := range onsets {
		s.Add(o)
	}
	return s
}

// LegalOnsets builds the set of word-initial onsets in a count table.
// With removeExotics only onsets seen more than once are kept.
func LegalOnsets(initial *phonotactic.Table, removeExotics bool) *OnsetSet {
	s := NewOnsetSet()
	for _, o := range initial.Clusters() {
		if removeExotics && initial.Count(o) <= 1 {
			continue
		}
		s.Add(o)
	}
	return s
}

// Add marks o as legal.
func (s *OnsetSet) Add(o cluster.Cluster) {
	s.onsets[o.Key()] = struct{}{}
	if len(o) > s.maxLen {
		s.maxLen = len(o)
	}
}

// Contains reports whether o is legal.
func (s *OnsetSet) Contains(o cluster.Cluster) bool {
	_, ok := s.onsets[o.Key()]
	return ok
}

// MaxLen returns the length of the longest legal onset.
func (s *OnsetSet) MaxLen() int { return s.maxLen }

// Len returns the number of legal onsets, including the empty onset.
func (s *OnsetSet) Len() int { return len(s.onsets) }

// Onsets returns the legal onsets, longest first.
func (s *OnsetSet) Onsets() []cluster.Cluster {
	out := make([]cluster.Cluster, 0, len(s.onsets))
	for k := range s.onsets {
		out = append(out, cluster.ParseCluster(k))
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}
