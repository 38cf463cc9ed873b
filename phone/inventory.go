package phone

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Manner is a manner-of-articulation class from the phone inventory.
type Manner string

const (
	Stop      Manner = "stop"
	Affricate Manner = "affricate"
	Fricative Manner = "fricative"
	Aspirate  Manner = "aspirate"
	Nasal     Manner = "nasal"
	Liquid    Manner = "liquid"
	Semivowel Manner = "semivowel"
	Vowel     Manner = "vowel"
)

// cmuPhones is the cmudict-0.7b phone inventory.
var cmuPhones = []struct {
	phone  Phone
	manner Manner
}{
	{"AA", Vowel}, {"AE", Vowel}, {"AH", Vowel}, {"AO", Vowel}, {"AW", Vowel},
	{"AY", Vowel}, {"EH", Vowel}, {"ER", Vowel}, {"EY", Vowel}, {"IH", Vowel},
	{"IY", Vowel}, {"OW", Vowel}, {"OY", Vowel}, {"UH", Vowel}, {"UW", Vowel},

	{"B", Stop}, {"D", Stop}, {"G", Stop}, {"K", Stop}, {"P", Stop}, {"T", Stop},
	{"CH", Affricate}, {"JH", Affricate},
	{"DH", Fricative}, {"F", Fricative}, {"S", Fricative}, {"SH", Fricative},
	{"TH", Fricative}, {"V", Fricative}, {"Z", Fricative}, {"ZH", Fricative},
	{"HH", Aspirate},
	{"M", Nasal}, {"N", Nasal}, {"NG", Nasal},
	{"L", Liquid}, {"R", Liquid},
	{"W", Semivowel}, {"Y", Semivowel},
}

// laxVowels are the vowels treated as lax when checking the vowel before a cluster.
var laxVowels = map[Phone]bool{
	"AE": true, "AH": true, "AO": true, "UH": true, "EH": true, "IH": true, "AX": true,
}

// Inventory classifies phones by manner of articulation.
type Inventory struct {
	manners map[Phone]Manner
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{manners: make(map[Phone]Manner)}
}

// DefaultInventory returns the built-in CMU inventory.
func DefaultInventory() *Inventory {
	inv := NewInventory()
	for _, e := range cmuPhones {
		inv.Add(e.phone, e.manner)
	}
	return inv
}

// Add registers a phone. Stress digits are stripped.
func (inv *Inventory) Add(p Phone, m Manner) {
	inv.manners[p.Base()] = m
}

// Load reads a phone file.
// Format: PHONE<TAB>manner
func Load(r io.Reader) (*Inventory, error) {
	inv := NewInventory()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected phone and manner, got %d fields", lineNum, len(parts))
		}
		inv.Add(Phone(parts[0]), Manner(parts[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(inv.manners) == 0 {
		return nil, fmt.Errorf("phone file has no entries")
	}
	return inv, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Manner returns the manner of p. Unknown phones report false.
func (inv *Inventory) Manner(p Phone) (Manner, bool) {
	m, ok := inv.manners[p.Base()]
	return m, ok
}

// Known reports whether p is in the inventory.
func (inv *Inventory) Known(p Phone) bool {
	_, ok := inv.manners[p.Base()]
	return ok
}

// IsVowel reports whether p is a vowel. Unknown phones are neither vowels nor consonants.
func (inv *Inventory) IsVowel(p Phone) bool {
	m, ok := inv.manners[p.Base()]
	return ok && m == Vowel
}

// IsConsonant reports whether p is a known non-vowel.
func (inv *Inventory) IsConsonant(p Phone) bool {
	m, ok := inv.manners[p.Base()]
	return ok && m != Vowel
}

// IsLax reports whether p is a lax vowel.
func (inv *Inventory) IsLax(p Phone) bool {
	return inv.IsVowel(p) && laxVowels[p.Base()]
}

// Vowels returns the sorted vowel set.
func (inv *Inventory) Vowels() []Phone {
	return inv.collect(func(m Manner) bool { return m == Vowel })
}

// Consonants returns the sorted consonant set.
func (inv *Inventory) Consonants() []Phone {
	return inv.collect(func(m Manner) bool { return m != Vowel })
}

// Phones returns every phone of the given manner, sorted.
func (inv *Inventory) Phones(manner Manner) []Phone {
	return inv.collect(func(m Manner) bool { return m == manner })
}

func (inv *Inventory) collect(keep func(Manner) bool) []Phone {
	var out []Phone
	for p, m := range inv.manners {
		if keep(m) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
