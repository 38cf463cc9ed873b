package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ieee0824/syllabify-go/phone"
)

// Entry represents a single pronunciation for a word.
type Entry struct {
	Word      string
	Phones    phone.Transcription
	Frequency int // corpus frequency, 0 when unknown
}

// Dictionary holds word-to-pronunciation mappings in load order.
type Dictionary struct {
	Entries map[string][]Entry // lowercase word -> alternative pronunciations
	order   []Entry
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Entries: make(map[string][]Entry),
	}
}

// Add adds a pronunciation entry to the dictionary.
func (d *Dictionary) Add(word string, phones phone.Transcription, freq int) {
	e := Entry{Word: word, Phones: phones, Frequency: freq}
	key := NormalizeWord(word)
	d.Entries[key] = append(d.Entries[key], e)
	d.order = append(d.order, e)
}

// LoadCMU reads a CMU-format pronunciation dictionary.
// Format: WORD  PH1 PH2 ... ; lines starting with ";;;" are comments.
// Alternative pronunciations "WORD(1)" are stored under WORD.
func LoadCMU(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected word and pronunciation", lineNum)
		}
		word := stripVariant(fields[0])
		phones := make(phone.Transcription, len(fields)-1)
		for i, p := range fields[1:] {
			phones[i] = phone.Phone(p)
		}
		d.Add(word, phones, 0)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadTSV reads a tab-separated corpus export.
// Format: word<TAB>PH1 PH2 ...[<TAB>frequency]; a first line whose third
// field is not a number is treated as a header.
func LoadTSV(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: expected at least 2 tab-separated fields, got %d", lineNum, len(parts))
		}
		phones := phone.ParseTranscription(parts[1])
		if len(phones) == 0 {
			// Rows dropped by corpus trimming have no transcription.
			continue
		}
		freq := 0
		if len(parts) >= 3 && strings.TrimSpace(parts[2]) != "" {
			n, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err != nil {
				if lineNum == 1 {
					continue
				}
				return nil, fmt.Errorf("line %d: bad frequency: %w", lineNum, err)
			}
			freq = int(n)
		}
		d.Add(strings.TrimSpace(parts[0]), phones, freq)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile opens a dictionary file. Files ending in ".tsv" are read with
// LoadTSV, everything else with LoadCMU.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return LoadTSV(f)
	}
	return LoadCMU(f)
}

// Lookup returns all pronunciation variants for a word, ignoring case.
func (d *Dictionary) Lookup(word string) []Entry {
	return d.Entries[NormalizeWord(word)]
}

// Transcription returns the first pronunciation of a word.
func (d *Dictionary) Transcription(word string) (phone.Transcription, bool) {
	entries := d.Lookup(word)
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0].Phones, true
}

// All returns every entry in load order.
func (d *Dictionary) All() []Entry {
	return d.order
}

// Transcriptions returns every pronunciation in load order.
func (d *Dictionary) Transcriptions() []phone.Transcription {
	out := make([]phone.Transcription, len(d.order))
	for i, e := range d.order {
		out[i] = e.Phones
	}
	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.order) }

// Map returns a copy with fn applied to every pronunciation.
func (d *Dictionary) Map(fn func(phone.Transcription) phone.Transcription) *Dictionary {
	out := NewDictionary()
	for _, e := range d.order {
		out.Add(e.Word, fn(e.Phones), e.Frequency)
	}
	return out
}

// NormalizeWord returns the lookup key of a word: trimmed, NFC composed and
// case folded.
func NormalizeWord(w string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(w)))
}

// stripVariant turns "WORD(1)" into "WORD".
func stripVariant(w string) string {
	if i := strings.LastIndexByte(w, '('); i > 0 && strings.HasSuffix(w, ")") {
		if _, err := strconv.Atoi(w[i+1 : len(w)-1]); err == nil {
			return w[:i]
		}
	}
	return w
}
