package quiz

import (
	"regexp"
	"strings"
)

var (
	// numericList matches a whole answer made of signed decimal numbers
	// separated by commas or whitespace, e.g. "3, 10, 2".
	numericList = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([,\s]+[+-]?\d+(\.\d+)?)*$`)
	numericSep  = regexp.MustCompile(`[,\s]+`)
	wordSep     = regexp.MustCompile(`[\s,\-]+`)
)

// Normalize canonicalizes a single answer into an ordered token sequence.
//
// Numeric lists are split on their separators and sorted in natural order,
// so "3, 10, 2" and "10,2,3" normalize identically. Anything else is split on
// runs of whitespace, hyphens and commas and uppercased, keeping token order:
// "Wi-Fi", "WI FI" and "wi fi" all become [WI FI]. A token sequence that
// consists only of numbers is treated as a numeric list, which keeps
// Normalize(Display(Normalize(s))) equal to Normalize(s).
func Normalize(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if numericList.MatchString(s) {
		return numericTokens(s)
	}

	tokens := wordTokens(s)
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) > 1 && numericList.MatchString(Display(tokens)) {
		SortNatural(tokens)
	}
	return tokens
}

// Display joins a token sequence with single spaces.
func Display(tokens []string) string {
	return strings.Join(tokens, " ")
}

// NormalizeLines normalizes every line independently and returns the display
// form of each non-blank result, in input order.
func NormalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		tokens := Normalize(line)
		if len(tokens) == 0 {
			continue
		}
		out = append(out, Display(tokens))
	}
	return out
}

// SplitLines splits a free-text submission into lines. Blank lines are kept;
// NormalizeLines drops them.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func numericTokens(s string) []string {
	parts := numericSep.Split(s, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	SortNatural(tokens)
	return tokens
}

func wordTokens(s string) []string {
	parts := wordSep.Split(s, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		tokens = append(tokens, strings.ToUpper(p))
	}
	return tokens
}
