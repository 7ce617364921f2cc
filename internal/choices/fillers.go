package choices

import (
	"regexp"
	"strings"
)

// entityGroups lists sibling values for answers whose kind can be inferred.
// Fillers for an answer found in a group are drawn from the same group.
var entityGroups = map[string][]string{
	"organ":  {"Heart", "Liver", "Lungs", "Kidney", "Brain", "Stomach", "Pancreas", "Spleen"},
	"planet": {"Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"},
	"color":  {"Red", "Blue", "Green", "Yellow", "Orange", "Purple", "Black", "White"},
	"metal":  {"Iron", "Copper", "Gold", "Silver", "Aluminum", "Lead", "Zinc", "Tin"},
	"animal": {"Dog", "Cat", "Horse", "Eagle", "Shark", "Bear", "Wolf", "Deer"},
	"unit":   {"Meter", "Liter", "Gram", "Second", "Inch", "Foot", "Pound", "Gallon"},
}

// categoryWords pads questions whose answer is neither a quantity nor a
// known entity.
var categoryWords = map[string][]string{
	"AR":    {"Cannot be determined", "Twice as much", "Half as much", "The same amount", "Not enough information"},
	"MK":    {"No solution", "Undefined", "Infinitely many solutions", "Cannot be determined", "Zero"},
	"WK":    {"Brief", "Candid", "Diligent", "Frugal", "Lucid", "Meager", "Prudent", "Vivid"},
	"PC":    {"The author disagrees", "The passage is neutral", "It is not stated", "The opposite is implied", "The main idea is different"},
	"MIXED": {"Cannot be determined", "It is not stated", "Twice as much", "The opposite is implied", "No solution"},
}

// genericWords pads questions in categories without their own list.
var genericWords = []string{"Cannot be determined", "It is not stated", "None of these", "Both of these", "Not enough information"}

// directionWords swaps a quantity's direction ("4% decrease" -> "4% increase").
var directionWords = [][2]string{
	{"increase", "decrease"},
	{"more", "less"},
	{"gain", "loss"},
	{"faster", "slower"},
	{"older", "younger"},
}

var placeholderPattern = regexp.MustCompile(`(?i)^(|n/?a|none|null|tbd|todo|\?+|-+|placeholder|(option|choice|answer)\s*[a-d1-9]?)$`)

// IsPlaceholder reports whether a choice is a stand-in rather than content.
func IsPlaceholder(choice string) bool {
	return placeholderPattern.MatchString(strings.TrimSpace(choice))
}

// groupOf returns the entity group containing value, if any.
func groupOf(value string) []string {
	for _, members := range entityGroups {
		for _, m := range members {
			if strings.EqualFold(m, value) {
				return members
			}
		}
	}
	return nil
}
