package phonotactic

import (
	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/phone"
)

// Word is a corpus entry seen by the edge counter.
type Word struct {
	Phones    phone.Transcription
	Frequency int
}

// InitialOnset returns the phones of t before its first vowel.
// A word without a vowel is returned whole.
func InitialOnset(t phone.Transcription, inv *phone.Inventory) cluster.Cluster {
	onset := cluster.Cluster{}
	for _, p := range t {
		if inv.IsVowel(p) {
			break
		}
		onset = append(onset, p.Base())
	}
	return onset
}

// FinalCoda returns the run of consonants ending t. Vowel-final words give
// the empty sequence.
func FinalCoda(t phone.Transcription, inv *phone.Inventory) cluster.Cluster {
	i := len(t)
	for i > 0 && inv.IsConsonant(t[i-1]) {
		i--
	}
	coda := make(cluster.Cluster, 0, len(t)-i)
	for _, p := range t[i:] {
		coda = append(coda, p.Base())
	}
	return coda
}

// CountEdges counts word-initial onsets and word-final codas, one per word.
func CountEdges(transcriptions []phone.Transcription, inv *phone.Inventory) (onsets, codas *Table) {
	words := make([]Word, len(transcriptions))
	for i, t := range transcriptions {
		words[i] = Word{Phones: t, Frequency: 1}
	}
	return CountEdgesWeighted(words, inv)
}

// CountEdgesWeighted counts edges weighting each word by its corpus frequency.
// Words with a non-positive frequency count once.
func CountEdgesWeighted(words []Word, inv *phone.Inventory) (onsets, codas *Table) {
	onsets, codas = NewTable(), NewTable()
	for _, w := range words {
		if len(w.Phones) == 0 {
			continue
		}
		n := w.Frequency
		if n <= 0 {
			n = 1
		}
		onsets.Add(InitialOnset(w.Phones, inv), n)
		codas.Add(FinalCoda(w.Phones, inv), n)
	}
	return onsets, codas
}
