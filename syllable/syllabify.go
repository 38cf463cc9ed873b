package syllable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/phone"
)

// ErrNoNucleus is returned for a transcription without a vowel.
var ErrNoNucleus = errors.New("transcription has no vowel nucleus")

// Syllable is an onset, one vowel nucleus and a coda.
type Syllable struct {
	Onset   []phone.Phone
	Nucleus phone.Phone
	Coda    []phone.Phone
}

// Phones returns the syllable's phones in order.
func (s Syllable) Phones() phone.Transcription {
	out := make(phone.Transcription, 0, len(s.Onset)+1+len(s.Coda))
	out = append(out, s.Onset...)
	out = append(out, s.Nucleus)
	return append(out, s.Coda...)
}

// Syllabification is an ordered syllable sequence covering a transcription.
type Syllabification []Syllable

// Phones concatenates every syllable, reproducing the input transcription.
func (s Syllabification) Phones() phone.Transcription {
	var out phone.Transcription
	for _, syl := range s {
		out = append(out, syl.Phones()...)
	}
	return out
}

// Format renders syllables separated by "+", e.g. "+ AH0 + S T R AY1 +".
func (s Syllabification) Format() string {
	var b strings.Builder
	b.WriteString("+")
	for _, syl := range s {
		b.WriteString(" ")
		b.WriteString(syl.Phones().String())
		b.WriteString(" +")
	}
	return b.String()
}

// Onsets returns the non-empty onsets of s. With initialOnly only the first
// syllable is considered.
func (s Syllabification) Onsets(initialOnly bool) []cluster.Cluster {
	var out []cluster.Cluster
	for i, syl := range s {
		if initialOnly && i > 0 {
			break
		}
		if len(syl.Onset) > 0 {
			out = append(out, cluster.Cluster(phone.Transcription(syl.Onset).StripStress()))
		}
	}
	return out
}

// Syllabifier assigns each nucleus the longest legal onset to its left.
type Syllabifier struct {
	onsets *OnsetSet
	inv    *phone.Inventory
}

// NewSyllabifier creates a syllabifier over a legal onset set.
func NewSyllabifier(onsets *OnsetSet, inv *phone.Inventory) *Syllabifier {
	return &Syllabifier{onsets: onsets, inv: inv}
}

// Onsets returns the legal onset set.
func (s *Syllabifier) Onsets() *OnsetSet { return s.onsets }

// Syllabify segments t right to left. At every nucleus the longest run of
// consonants immediately to its left that is a legal onset becomes the onset;
// what is left of the run becomes the coda of the previous syllable. Phones
// before the first nucleus all join the first onset.
func (s *Syllabifier) Syllabify(t phone.Transcription) (Syllabification, error) {
	var nuclei []int
	for i, p := range t {
		if s.inv.IsVowel(p) {
			nuclei = append(nuclei, i)
		}
	}
	if len(nuclei) == 0 {
		return nil, fmt.Errorf("syllabify %q: %w", t.String(), ErrNoNucleus)
	}

	sylls := make(Syllabification, len(nuclei))
	last := nuclei[len(nuclei)-1]
	sylls[len(sylls)-1].Coda = copyPhones(t[last+1:])

	for k := len(nuclei) - 1; k >= 0; k-- {
		n := nuclei[k]
		sylls[k].Nucleus = t[n]
		if k == 0 {
			sylls[k].Onset = copyPhones(t[:n])
			break
		}
		runStart := nuclei[k-1] + 1
		split := runStart + s.coda(t[runStart:n])
		sylls[k].Onset = copyPhones(t[split:n])
		sylls[k-1].Coda = copyPhones(t[runStart:split])
	}
	return sylls, nil
}

// coda returns how many phones at the start of run stay behind as coda.
func (s *Syllabifier) coda(run []phone.Phone) int {
	// Only the all-consonant tail of the run can be an onset.
	tail := len(run)
	for tail > 0 && s.inv.IsConsonant(run[tail-1]) {
		tail--
	}
	longest := len(run) - tail
	if limit := s.onsets.MaxLen(); longest > limit {
		longest = limit
	}
	for n := longest; n > 0; n-- {
		cand := cluster.Cluster(phone.Transcription(run[len(run)-n:]).StripStress())
		if s.onsets.Contains(cand) {
			return len(run) - n
		}
	}
	return len(run)
}

// SplitCluster syllabifies c between two synthetic vowels and returns the
// number of consonants left in the first syllable's coda.
func (s *Syllabifier) SplitCluster(c cluster.Cluster) (int, error) {
	v := s.syntheticVowel()
	if v == "" {
		return 0, fmt.Errorf("split cluster %s: inventory has no vowels", c)
	}
	t := make(phone.Transcription, 0, len(c)+2)
	t = append(t, v)
	t = append(t, c...)
	t = append(t, v)
	sylls, err := s.Syllabify(t)
	if err != nil {
		return 0, err
	}
	if len(sylls) != 2 {
		return 0, fmt.Errorf("split cluster %s: got %d syllables, want 2", c, len(sylls))
	}
	return len(sylls[0].Coda), nil
}

func (s *Syllabifier) syntheticVowel() phone.Phone {
	vowels := s.inv.Vowels()
	if len(vowels) == 0 {
		return ""
	}
	return vowels[0] + "0"
}

func copyPhones(ps []phone.Phone) []phone.Phone {
	out := make([]phone.Phone, len(ps))
	copy(out, ps)
	return out
}
