package cluster

import (
	"fmt"
	"strings"
)

// Code is the position of a syllable boundary inside a cluster.
type Code uint8

const (
	CodeUnknown Code = iota // no usable response ("?")
	CodeXC                  // (V).CCC(V)
	CodeCX                  // (V)C.CC(V)
	CodeCCX                 // (V)CC.C(V)
	CodeCCCX                // (V)CCC.(V)
)

// Codes lists every real code in split order.
var Codes = []Code{CodeXC, CodeCX, CodeCCX, CodeCCCX}

// AllCodes lists every code, unknown last.
var AllCodes = []Code{CodeXC, CodeCX, CodeCCX, CodeCCCX, CodeUnknown}

var codeNames = [...]string{"X", "XC", "CX", "CCX", "CCCX"}

var codeLabels = [...]string{"?", ".C", "C.", "CC.", "CCC."}

// Split returns the number of consonants placed in the coda.
// The unknown code has no split position.
func (c Code) Split() (int, bool) {
	if c == CodeUnknown || c > CodeCCCX {
		return 0, false
	}
	return int(c) - 1, true
}

// IsUnknown reports whether c is the no-response code.
func (c Code) IsUnknown() bool { return c == CodeUnknown }

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", uint8(c))
}

// Label returns the survey spelling of c (".C", "C.", "CC.", "CCC.", "?").
func (c Code) Label() string {
	if int(c) < len(codeLabels) {
		return codeLabels[c]
	}
	return c.String()
}

// ValidFor reports whether c can split a cluster of n consonants.
// The unknown code is valid for every length.
func (c Code) ValidFor(n int) bool {
	pos, ok := c.Split()
	if !ok {
		return c == CodeUnknown
	}
	return pos <= n
}

// ParseCode accepts the symbolic name ("CX") or the survey label ("C.").
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	for i := range codeNames {
		if s == codeNames[i] || s == codeLabels[i] {
			return Code(i), nil
		}
	}
	return CodeUnknown, fmt.Errorf("unknown boundary code %q", s)
}

// CodeForCoda returns the code whose split leaves n consonants in the coda.
func CodeForCoda(n int) (Code, bool) {
	if n < 0 || n > 3 {
		return CodeUnknown, false
	}
	return Code(n + 1), true
}

// ValidCodes returns the codes valid for a cluster of n consonants, in split
// order, with the unknown code last.
func ValidCodes(n int) []Code {
	out := make([]Code, 0, len(AllCodes))
	for _, c := range AllCodes {
		if c.ValidFor(n) {
			out = append(out, c)
		}
	}
	return out
}

// SplitCodes returns ValidCodes without the unknown code.
func SplitCodes(n int) []Code {
	codes := ValidCodes(n)
	return codes[:len(codes)-1]
}

// Split is the coda/onset decomposition a code implies for a cluster.
type Split struct {
	Coda  Cluster
	Onset Cluster
}

// UnknownSplit is returned for the unknown code. It is never a real split.
var UnknownSplit = Split{Coda: Cluster{"?"}, Onset: Cluster{"?"}}

// IsUnknown reports whether s is the sentinel pair.
func (s Split) IsUnknown() bool {
	return len(s.Coda) == 1 && s.Coda[0] == "?" && len(s.Onset) == 1 && s.Onset[0] == "?"
}

func (s Split) String() string {
	return s.Coda.Key() + "." + s.Onset.Key()
}

// InvalidCodeError reports a code that cannot split the given cluster.
type InvalidCodeError struct {
	Cluster Cluster
	Code    Code
}

func (e *InvalidCodeError) Error() string {
	pos, _ := e.Code.Split()
	return fmt.Sprintf("boundary code %s (split %d) is invalid for cluster %s of length %d",
		e.Code, pos, e.Cluster, len(e.Cluster))
}

// CodaOnset decomposes c at code. The unknown code yields UnknownSplit.
func CodaOnset(code Code, c Cluster) (Split, error) {
	if code == CodeUnknown {
		return UnknownSplit, nil
	}
	pos, ok := code.Split()
	if !ok || pos > len(c) {
		return Split{}, &InvalidCodeError{Cluster: c, Code: code}
	}
	coda := make(Cluster, pos)
	copy(coda, c[:pos])
	onset := make(Cluster, len(c)-pos)
	copy(onset, c[pos:])
	return Split{Coda: coda, Onset: onset}, nil
}

// CodeOf returns the code that produces s from c.
func CodeOf(s Split, c Cluster) (Code, error) {
	if s.IsUnknown() {
		return CodeUnknown, nil
	}
	code, ok := CodeForCoda(len(s.Coda))
	if !ok || !Join(s.Coda, s.Onset).Equal(c) {
		return CodeUnknown, fmt.Errorf("split %s does not decompose cluster %s", s, c)
	}
	return code, nil
}
