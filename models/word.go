package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// WordLength is the number of letters in every puzzle word and guess
	WordLength = 5
	// MaxAttempts is the number of guesses a player gets per puzzle
	MaxAttempts = 6
)

// NormalizeWord uppercases s and reports whether it is a valid word:
// exactly WordLength letters, accented letters included.
func NormalizeWord(s string) (string, bool) {
	word := strings.ToUpper(strings.TrimSpace(s))
	if utf8.RuneCountInString(word) != WordLength {
		return "", false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return word, true
}
