package phone

// Profile classifies the sonority contour of a consonant sequence.
type Profile string

const (
	ProfileRise             Profile = "rise"
	ProfileFall             Profile = "fall"
	ProfilePlateau          Profile = "plateau"
	ProfileNonmonotonicFall Profile = "nonmonotonic fall"
	ProfileNonmonotonicRise Profile = "nonmonotonic rise"
	ProfileOther            Profile = "other"
)

// HH is listed as an aspirate and ranked with the fricatives.
var sonorityScale = map[Manner]int{
	Stop:      1,
	Affricate: 2,
	Fricative: 3,
	Aspirate:  3,
	Nasal:     4,
	Liquid:    5,
	Semivowel: 5,
	Vowel:     6,
}

// Sonority returns the sonority level of a manner, or 0 for an unknown manner.
func Sonority(m Manner) int {
	return sonorityScale[m]
}

// SonorityProfile returns the sonority levels of seq. Unknown phones get 0.
func (inv *Inventory) SonorityProfile(seq []Phone) []int {
	levels := make([]int, len(seq))
	for i, p := range seq {
		if m, ok := inv.Manner(p); ok {
			levels[i] = Sonority(m)
		}
	}
	return levels
}

// ClassifyProfile names the contour of a sequence of sonority levels.
// A strict rise or fall wins over a plateau; a sequence with equal neighbours
// but no reversal is nonmonotonic.
func ClassifyProfile(levels []int) Profile {
	if len(levels) == 0 {
		return ProfileOther
	}
	rise, fall := true, true
	nonmonRise, nonmonFall := true, true
	plateau := true
	prev := levels[0]
	for _, level := range levels[1:] {
		switch {
		case level > prev:
			fall, nonmonFall, plateau = false, false, false
		case level < prev:
			rise, nonmonRise, plateau = false, false, false
		default:
			rise, fall = false, false
		}
		prev = level
	}
	switch {
	case rise:
		return ProfileRise
	case fall:
		return ProfileFall
	case plateau:
		return ProfilePlateau
	case nonmonFall:
		return ProfileNonmonotonicFall
	case nonmonRise:
		return ProfileNonmonotonicRise
	default:
		return ProfileOther
	}
}
