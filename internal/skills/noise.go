package skills

import (
	"strings"
	"unicode/utf8"
)

const (
	noiseWindow   = 10
	contextWindow = 50
)

// noiseIndicators mark a match as part of a URL, path or code token.
var noiseIndicators = []string{
	"http://", "https://", "www.", ".com", ".org", ".net",
	"file://", "/", "\\", ".min.", ".bundle.",
	"import ", "require(", "from ", "class=", "id=",
}

// isNoise reports whether the text around s[start:end] carries a noise indicator.
// The match itself is blanked out so that terms such as "ci/cd" or "asp.net" are
// judged by their surroundings only.
func isNoise(s string, start, end int) bool {
	lo, hi := expand(s, start, end, noiseWindow)
	around := strings.ToLower(s[lo:start] + " " + s[end:hi])
	for _, ind := range noiseIndicators {
		if strings.Contains(around, ind) {
			return true
		}
	}
	return false
}

// snippet returns the match with up to contextWindow characters on each side.
func snippet(s string, start, end int) string {
	lo, hi := expand(s, start, end, contextWindow)
	return strings.TrimSpace(s[lo:hi])
}

// expand widens [start, end) by n runes on each side, clamped to s.
func expand(s string, start, end, n int) (int, int) {
	lo := start
	for i := 0; i < n && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < n && hi < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[hi:])
		hi += size
	}
	return lo, hi
}
