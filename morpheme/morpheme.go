// Package morpheme locates the boundary between the two morphemes of an
// annotated word inside the word's transcription.
package morpheme

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ieee0824/syllabify-go/cluster"
	"github.com/ieee0824/syllabify-go/lexicon"
	"github.com/ieee0824/syllabify-go/phone"
)

// Annotation splits a word into two morphemes, e.g. a+bed.
type Annotation struct {
	Word   string
	Morph1 string
	Morph2 string
}

// Index maps a word to the position of its morpheme boundary in its
// transcription: the number of phones before the boundary. The transcription
// the boundary counts phones in is kept with it.
type Index struct {
	entries map[string]entry
	// Unresolved lists annotated words for which no rule applied.
	Unresolved []string
}

type entry struct {
	boundary int
	phones   phone.Transcription
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]entry)}
}

// Set records the boundary of word as an index into phones. phones may be
// nil when the boundary already indexes the transcriptions it will be
// aligned with.
func (idx *Index) Set(word string, phones phone.Transcription, boundary int) {
	idx.entries[lexicon.NormalizeWord(word)] = entry{boundary: boundary, phones: phones.StripStress()}
}

// Boundary returns the boundary of word, if known.
func (idx *Index) Boundary(word string) (int, bool) {
	e, ok := idx.entries[lexicon.NormalizeWord(word)]
	return e.boundary, ok
}

// Align returns the boundary of word as an index into the transcription m
// was extracted from. The boundary is moved by the distance between m.Start
// and the occurrence of m.Cluster in the indexed transcription closest to
// it. When that transcription does not contain the cluster the result is -1,
// which lies outside every cluster.
func (idx *Index) Align(word string, m cluster.Medial) (int, bool) {
	e, ok := idx.entries[lexicon.NormalizeWord(word)]
	if !ok {
		return 0, false
	}
	if e.phones == nil {
		return e.boundary, true
	}
	at, found := -1, false
	for i := 0; i+len(m.Cluster) <= len(e.phones); i++ {
		if !cluster.Cluster(e.phones[i : i+len(m.Cluster)]).Equal(m.Cluster) {
			continue
		}
		if !found || abs(i-m.Start) < abs(at-m.Start) {
			at, found = i, true
		}
	}
	if !found {
		return -1, true
	}
	return e.boundary - at + m.Start, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Len returns the number of words with a boundary.
func (idx *Index) Len() int { return len(idx.entries) }

// Build resolves each annotation against the affix lengths (in phones) and
// the dictionary, trying in order:
//
//	Morph1 is an affix:   len(Morph1 affix)
//	Morph2 is an affix:   len(word) - len(Morph2 affix)
//	Morph1 is a word:     len(Morph1)
//	Morph2 is a word:     len(word) - len(Morph2)
//
// Words missing from dict, annotations with an empty morpheme and words
// listed in exclude are skipped.
func Build(annotations []Annotation, affixes map[string]int, dict *lexicon.Dictionary, exclude ...string) *Index {
	skip := make(map[string]bool, len(exclude))
	for _, w := range exclude {
		skip[lexicon.NormalizeWord(w)] = true
	}

	idx := NewIndex()
	for _, a := range annotations {
		if a.Word == "" || a.Morph1 == "" || a.Morph2 == "" || skip[lexicon.NormalizeWord(a.Word)] {
			continue
		}
		word, ok := dict.Transcription(a.Word)
		if !ok {
			continue
		}
		if n, ok := affixes[a.Morph1]; ok {
			idx.Set(a.Word, word, n)
		} else if n, ok := affixes[a.Morph2]; ok {
			idx.Set(a.Word, word, len(word)-n)
		} else if m1, ok := dict.Transcription(a.Morph1); ok {
			idx.Set(a.Word, word, len(m1))
		} else if m2, ok := dict.Transcription(a.Morph2); ok {
			idx.Set(a.Word, word, len(word)-len(m2))
		} else {
			idx.Unresolved = append(idx.Unresolved, a.Word)
		}
	}
	return idx
}

// ReadAnnotations reads a CSV with Word, Morph1 and Morph2 columns.
func ReadAnnotations(r io.Reader) ([]Annotation, error) {
	var out []Annotation
	err := readCSV(r, []string{"Word", "Morph1", "Morph2"}, func(line int, f []string) error {
		out = append(out, Annotation{Word: f[0], Morph1: f[1], Morph2: f[2]})
		return nil
	})
	return out, err
}

// ReadAffixes reads a CSV with Affix and Length columns. Length is the
// affix length in phones.
func ReadAffixes(r io.Reader) (map[string]int, error) {
	out := make(map[string]int)
	err := readCSV(r, []string{"Affix", "Length"}, func(line int, f []string) error {
		n, err := strconv.Atoi(f[1])
		if err != nil || n < 0 {
			return fmt.Errorf("line %d: bad length %q for affix %q", line, f[1], f[0])
		}
		out[f[0]] = n
		return nil
	})
	return out, err
}

// LoadFiles reads the annotation and affix files and builds the Index.
func LoadFiles(annotationsPath, affixesPath string, dict *lexicon.Dictionary, exclude ...string) (*Index, error) {
	af, err := os.Open(affixesPath)
	if err != nil {
		return nil, err
	}
	defer af.Close()
	affixes, err := ReadAffixes(af)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", affixesPath, err)
	}

	mf, err := os.Open(annotationsPath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()
	annotations, err := ReadAnnotations(mf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", annotationsPath, err)
	}
	return Build(annotations, affixes, dict, exclude...), nil
}

// readCSV calls fn with the named columns of every row after the header.
func readCSV(r io.Reader, columns []string, fn func(line int, fields []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return errors.New("empty input")
	}
	if err != nil {
		return err
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	idx := make([]int, len(columns))
	for i, c := range columns {
		p, ok := pos[c]
		if !ok {
			return fmt.Errorf("missing column %q", c)
		}
		idx[i] = p
	}

	fields := make([]string, len(columns))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := cr.FieldPos(0)
		for i, p := range idx {
			fields[i] = ""
			if p < len(record) {
				fields[i] = strings.TrimSpace(record[p])
			}
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
}
