package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsTerminalPunct reports whether r ends a sentence.
func IsTerminalPunct(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences splits text after every '.', '!' or '?' that is followed by whitespace.
// The punctuation stays with its sentence; sentences are trimmed and blank ones dropped.
//
// Example:
//
//	SplitSentences("One. Two!  Three") // ["One.", "Two!", "Three"]
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if !IsTerminalPunct(r) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next >= len(text) {
			break
		}
		nr, _ := utf8.DecodeRuneInString(text[next:])
		if !unicode.IsSpace(nr) {
			continue
		}
		if s := strings.TrimSpace(text[start:next]); s != "" {
			sentences = append(sentences, s)
		}
		start = next
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// EndsWithTerminalPunct reports whether s ends with '.', '!' or '?'.
func EndsWithTerminalPunct(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return IsTerminalPunct(r)
}

// Tokenize lowercases text and returns its letter/digit runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
