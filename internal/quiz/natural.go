package quiz

import (
	"sort"
	"strings"
)

// chunk is a run of digits or a run of non-digits.
type chunk struct {
	text    string
	numeric bool
}

// naturalKey splits s into alternating text and digit runs. The key always
// starts with a text run, possibly empty, so keys compare position by position.
func naturalKey(s string) []chunk {
	key := make([]chunk, 0, 4)
	start := 0
	numeric := false
	for i := 0; i < len(s); i++ {
		digit := isDigit(s[i])
		if digit == numeric {
			continue
		}
		key = append(key, chunk{text: s[start:i], numeric: numeric})
		start = i
		numeric = digit
	}
	key = append(key, chunk{text: s[start:], numeric: numeric})
	return key
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// compareDigits compares two digit runs by numeric value without parsing,
// so arbitrarily long runs never overflow.
func compareDigits(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	return strings.Compare(ta, tb)
}

// compareChunk compares chunks at the same key position, which always share
// the same kind.
func compareChunk(a, b chunk) int {
	if a.numeric {
		return compareDigits(a.text, b.text)
	}
	return strings.Compare(strings.ToLower(a.text), strings.ToLower(b.text))
}

// NaturalCompare orders strings so embedded numbers compare as numbers and
// other runs compare case-insensitively: "Item2" < "Item10". Strings equal
// under that order fall back to a byte comparison, making the order total.
func NaturalCompare(a, b string) int {
	ka, kb := naturalKey(a), naturalKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if c := compareChunk(ka[i], kb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	}
	return strings.Compare(a, b)
}

// NaturalLess reports whether a sorts before b in natural order.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// SortNatural sorts values in place in natural order.
func SortNatural(values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		return NaturalLess(values[i], values[j])
	})
}
