package phone

import (
	"strings"
	"unicode"
)

// Phone represents a DARPABET phone. Vowels may carry a trailing stress digit.
type Phone string

// Base returns the phone with any stress digits removed.
func (p Phone) Base() Phone {
	s := string(p)
	if strings.IndexFunc(s, unicode.IsDigit) < 0 {
		return p
	}
	return Phone(strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s))
}

// Stress returns the trailing stress digit, if any.
func (p Phone) Stress() (int, bool) {
	s := string(p)
	if s == "" {
		return 0, false
	}
	last := s[len(s)-1]
	if last < '0' || last > '9' {
		return 0, false
	}
	return int(last - '0'), true
}

// Transcription is one word's pronunciation.
type Transcription []Phone

// ParseTranscription splits a space-separated transcription.
func ParseTranscription(s string) Transcription {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	t := make(Transcription, len(fields))
	for i, f := range fields {
		t[i] = Phone(f)
	}
	return t
}

func (t Transcription) String() string {
	parts := make([]string, len(t))
	for i, p := range t {
		parts[i] = string(p)
	}
	return strings.Join(parts, " ")
}

// StripStress returns a copy of t with all stress digits removed.
func (t Transcription) StripStress() Transcription {
	if t == nil {
		return nil
	}
	out := make(Transcription, len(t))
	for i, p := range t {
		out[i] = p.Base()
	}
	return out
}

// SplitRhotic rewrites every syllabic ER as UH followed by R, keeping the stress digit.
func SplitRhotic(t Transcription) Transcription {
	out := make(Transcription, 0, len(t))
	for _, p := range t {
		if p.Base() != "ER" {
			out = append(out, p)
			continue
		}
		uh := Phone("UH")
		if d, ok := p.Stress(); ok {
			uh = Phone("UH" + string(rune('0'+d)))
		}
		out = append(out, uh, "R")
	}
	return out
}
