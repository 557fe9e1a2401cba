package text

import "strings"

// DefaultWordBudget is the default maximum number of words handed to local strategies.
const DefaultWordBudget = 2000

// TruncateWords keeps the first maxWords whitespace-separated tokens of text,
// joined by single spaces. It is pure and idempotent:
//
//	TruncateWords(TruncateWords(t, n), n) == TruncateWords(t, n)
//
// maxWords <= 0 disables truncation and returns text unchanged.
func TruncateWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
