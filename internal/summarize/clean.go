package summarize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinSentenceChars is the shortest sentence kept by cleaning
const DefaultMinSentenceChars = 20

// CleanSentences collapses internal whitespace and drops extraction artifacts:
// sentences shorter than minChars and sentences without a single letter.
func CleanSentences(sentences []string, minChars int) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.Join(strings.Fields(s), " ")
		if utf8.RuneCountInString(s) < minChars || !hasLetter(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
