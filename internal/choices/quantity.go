package choices

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// quantityPattern splits an answer around its first number: an optional
// prefix ("$", "x = "), the number and an optional suffix ("%", " hours",
// "% decrease").
var quantityPattern = regexp.MustCompile(`^([^\d-]*?)(-?\d[\d,]*(?:\.\d+)?)(\D.*)?$`)

// quantity is an answer that carries a number in a fixed surrounding format.
type quantity struct {
	prefix   string
	suffix   string
	value    float64
	decimals int
	grouped  bool
}

// parseQuantity recognises "12", "2.50", "1,200", "$60", "4% decrease" and
// "3 hours". Answers without a number report false.
func parseQuantity(answer string) (quantity, bool) {
	m := quantityPattern.FindStringSubmatch(answer)
	if m == nil {
		return quantity{}, false
	}
	num := m[2]
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return quantity{}, false
	}
	q := quantity{
		prefix:  m[1],
		suffix:  m[3],
		value:   v,
		grouped: strings.Contains(num, ","),
	}
	if i := strings.IndexByte(num, '.'); i >= 0 {
		q.decimals = len(num) - i - 1
	}
	return q, true
}

// fillers returns nearby values in the answer's format, preference order.
// A flipped direction of the same value comes first when the suffix has one.
func (q quantity) fillers() []string {
	var out []string
	if flipped, ok := flipDirection(q.suffix); ok {
		out = append(out, q.format(q.value, flipped))
	}
	for _, v := range numericValues(q.value, q.decimals) {
		out = append(out, q.format(v, q.suffix))
	}
	return out
}

func (q quantity) format(v float64, suffix string) string {
	s := strconv.FormatFloat(v, 'f', q.decimals, 64)
	if q.grouped {
		s = groupThousands(s)
	}
	return q.prefix + s + suffix
}

// numericValues returns values stepping away from n. Non-negative answers
// never get negative neighbours.
func numericValues(n float64, decimals int) []float64 {
	step := 1.0
	if decimals > 0 {
		step = math.Pow(10, -float64(decimals))
	} else if math.Abs(n) >= 20 {
		step = math.Max(1, math.Round(math.Abs(n)*0.1))
	}

	var out []float64
	for _, k := range []float64{1, -1, 2, -2, 3, -3, 4, -4, 5, 6} {
		v := n + k*step
		if n >= 0 && v < 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// flipDirection swaps the first whole direction word in suffix.
func flipDirection(suffix string) (string, bool) {
	lower := strings.ToLower(suffix)
	for _, pair := range directionWords {
		for i, w := range pair {
			j := strings.Index(lower, w)
			if j < 0 || !wordBoundary(lower, j-1) || !wordBoundary(lower, j+len(w)) {
				continue
			}
			return suffix[:j] + pair[1-i] + suffix[j+len(w):], true
		}
	}
	return "", false
}

func wordBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z')
}

// groupThousands inserts commas into the integer part of a formatted number.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
