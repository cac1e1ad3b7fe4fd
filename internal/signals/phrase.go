package signals

import (
	"regexp"
	"strings"
)

var (
	phraseSeparators = regexp.MustCompile(`[^\p{L}\p{N}+#]+`)
	phraseSpaces     = regexp.MustCompile(`\s+`)
)

// NormalizeText lowercases s and turns every run of characters other than
// letters, digits, '+' and '#' into a single space, so "CI/CD" and "ci cd"
// normalize alike while "C++" and "C#" survive.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = phraseSeparators.ReplaceAllString(s, " ")
	s = phraseSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ContainsPhrase reports whether normalizedPhrase occurs in normalizedText as
// whole words. "rest api" is found in "... rest api ..." but not in "... rest apis ...".
func ContainsPhrase(normalizedText, normalizedPhrase string) bool {
	if normalizedPhrase == "" {
		return false
	}
	return strings.Contains(" "+normalizedText+" ", " "+normalizedPhrase+" ")
}
