package difficulty

import "fmt"

// Tier is an ordered difficulty classification used both for questions and
// for the inferred skill of a learner.
type Tier string

const (
	TierEasy     Tier = "easy"
	TierMedium   Tier = "medium"
	TierHard     Tier = "hard"
	TierVeryHard Tier = "very-hard"
	TierMaster   Tier = "master"
)

var ordered = []Tier{TierEasy, TierMedium, TierHard, TierVeryHard, TierMaster}

// All returns every tier from easiest to hardest.
func All() []Tier {
	out := make([]Tier, len(ordered))
	copy(out, ordered)
	return out
}

// Rank returns the position of t in the ordering (easy = 0).
// Unknown tiers rank as easy.
func (t Tier) Rank() int {
	for i, o := range ordered {
		if o == t {
			return i
		}
	}
	return 0
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	for _, o := range ordered {
		if o == t {
			return true
		}
	}
	return false
}

// Less reports whether t is strictly easier than other.
func (t Tier) Less(other Tier) bool {
	return t.Rank() < other.Rank()
}

// Max returns the harder of a and b.
func Max(a, b Tier) Tier {
	if a.Less(b) {
		return b
	}
	return a
}

// FromRank returns the tier at rank r, clamped to the valid range.
func FromRank(r int) Tier {
	if r < 0 {
		return ordered[0]
	}
	if r >= len(ordered) {
		return ordered[len(ordered)-1]
	}
	return ordered[r]
}

// ParseTier converts a string into a Tier. The empty string parses as easy.
func ParseTier(s string) (Tier, error) {
	if s == "" {
		return TierEasy, nil
	}
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown difficulty tier %q", s)
	}
	return t, nil
}

// Outward returns every tier ordered by distance from target, trying the
// easier neighbour before the harder one at each distance.
func Outward(target Tier) []Tier {
	r := target.Rank()
	out := []Tier{FromRank(r)}
	for d := 1; len(out) < len(ordered); d++ {
		if r-d >= 0 {
			out = append(out, ordered[r-d])
		}
		if r+d < len(ordered) {
			out = append(out, ordered[r+d])
		}
	}
	return out
}
