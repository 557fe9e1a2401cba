// Package text provides utilities for text processing and analysis.
// This package includes the word-budget preprocessor, sentence splitting and
// character/word counting shared by the summarization strategies and the HTTP layer.
package text

import (
	"math"
	"strings"
	"unicode/utf8"
)

// DefaultWordsPerMinute is the reading speed used for reading-time estimates.
const DefaultWordsPerMinute = 200

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters count as one.
//
// Examples:
//
//	CountRunes("hello")  // returns 5
//	CountRunes("日本語")  // returns 3
//	CountRunes("")       // returns 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates reading time in whole minutes, rounded up.
// Non-empty text always takes at least one minute. wpm <= 0 uses DefaultWordsPerMinute.
func ReadingTime(words, wpm int) int {
	if words <= 0 {
		return 0
	}
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	return int(math.Ceil(float64(words) / float64(wpm)))
}
