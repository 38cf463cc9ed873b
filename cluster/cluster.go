// Package cluster extracts medial consonant clusters and enumerates the
// positions at which a syllable boundary may split them.
package cluster

import "github.com/ieee0824/syllabify-go/phone"

// Cluster is a consonant sequence. Equality is by phone sequence.
type Cluster []phone.Phone

// ParseCluster inverts Key.
func ParseCluster(key string) Cluster {
	return Cluster(phone.ParseTranscription(key))
}

// Key returns the space-joined form, usable as a map key.
func (c Cluster) Key() string {
	return phone.Transcription(c).String()
}

func (c Cluster) String() string {
	if len(c) == 0 {
		return "()"
	}
	return c.Key()
}

// Equal reports whether c and o hold the same phones.
func (c Cluster) Equal(o Cluster) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Medial is a cluster found between two vowels together with its position.
type Medial struct {
	Cluster Cluster
	Start   int // index of the first consonant in the transcription
}

// End returns the index one past the last consonant.
func (m Medial) End() int { return m.Start + len(m.Cluster) }

// Extract returns the first vowel-consonants-vowel run of t.
// Stress digits are stripped from the returned cluster. Words without the
// pattern (monosyllables, no medial consonants) report false.
func Extract(t phone.Transcription, inv *phone.Inventory) (Medial, bool) {
	base := t.StripStress()
	for i := 0; i < len(base); i++ {
		if !inv.IsVowel(base[i]) {
			continue
		}
		j := i + 1
		for j < len(base) && inv.IsConsonant(base[j]) {
			j++
		}
		if j == i+1 || j >= len(base) || !inv.IsVowel(base[j]) {
			continue
		}
		c := make(Cluster, j-i-1)
		copy(c, base[i+1:j])
		return Medial{Cluster: c, Start: i + 1}, true
	}
	return Medial{}, false
}

// Join concatenates coda and onset.
func Join(coda, onset Cluster) Cluster {
	out := make(Cluster, 0, len(coda)+len(onset))
	out = append(out, coda...)
	return append(out, onset...)
}

// Sequences returns every sequence of n distinct phones drawn from phones,
// in the order of phones.
func Sequences(n int, phones []phone.Phone) []Cluster {
	var out []Cluster
	used := make([]bool, len(phones))
	prefix := make(Cluster, 0, n)
	var extend func()
	extend = func() {
		if len(prefix) == n {
			c := make(Cluster, n)
			copy(c, prefix)
			out = append(out, c)
			return
		}
		for i, p := range phones {
			if used[i] {
				continue
			}
			used[i] = true
			prefix = append(prefix, p)
			extend()
			prefix = prefix[:len(prefix)-1]
			used[i] = false
		}
	}
	if n >= 0 && n <= len(phones) {
		extend()
	}
	return out
}
