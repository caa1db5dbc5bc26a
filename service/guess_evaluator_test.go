package service

import (
	"strings"
	"testing"

	"wordler/models"

	"github.com/stretchr/testify/assert"
)

const (
	abs = models.LetterAbsent
	pre = models.LetterPresent
	cor = models.LetterCorrect
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		guess    string
		target   string
		expected []models.LetterStatus
	}{
		{
			name:     "exact match",
			guess:    "CRANE",
			target:   "CRANE",
			expected: []models.LetterStatus{cor, cor, cor, cor, cor},
		},
		{
			name:     "nothing in common",
			guess:    "BUMPY",
			target:   "CRANE",
			expected: []models.LetterStatus{abs, abs, abs, abs, abs},
		},
		{
			name:     "duplicate guess letters capped by target",
			guess:    "SPEED",
			target:   "ERASE",
			expected: []models.LetterStatus{pre, abs, pre, pre, abs},
		},
		{
			name:     "correct letter consumes before present",
			guess:    "LLAMA",
			target:   "HELLO",
			expected: []models.LetterStatus{pre, pre, abs, abs, abs},
		},
		{
			name:     "exact matches consume before earlier duplicates",
			guess:    "EERIE",
			target:   "THREE",
			expected: []models.LetterStatus{pre, abs, cor, abs, cor},
		},
		{
			name:     "single target letter marked once",
			guess:    "ALLEE",
			target:   "PLAGE",
			expected: []models.LetterStatus{pre, cor, abs, abs, cor},
		},
		{
			name:     "accented letters are single positions",
			guess:    "ÉLÈVE",
			target:   "ÉTÉES",
			expected: []models.LetterStatus{cor, abs, abs, abs, pre},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(tt.guess, tt.target))
		})
	}
}

// TestEvaluate_Properties checks the counting rules over every pair drawn
// from a small word set.
func TestEvaluate_Properties(t *testing.T) {
	words := []string{"SPEED", "ERASE", "EERIE", "THREE", "LLAMA", "HELLO", "ABBEY", "BABES", "KAYAK", "CRANE", "ALLEE", "LEVEE"}

	for _, guess := range words {
		for _, target := range words {
			result := Evaluate(guess, target)
			g, tr := []rune(guess), []rune(target)

			correct, equal := 0, 0
			for i, s := range result {
				if s == cor {
					correct++
				}
				if g[i] == tr[i] {
					equal++
				}
			}
			assert.Equal(t, equal, correct, "%s vs %s", guess, target)

			marked := map[rune]int{}
			for i, s := range result {
				if s != abs {
					marked[g[i]]++
				}
			}
			for letter, count := range marked {
				assert.LessOrEqual(t, count, strings.Count(target, string(letter)), "%s vs %s letter %c", guess, target, letter)
			}
		}
	}
}

func TestShareFormatter(t *testing.T) {
	f := ShareFormatter{Title: "Wordle FR", URL: "https://example.com/wordle"}
	grid := EvaluateAll([]string{"ARBRE", "PLAGE"}, "PLAGE")

	t.Run("header", func(t *testing.T) {
		assert.Equal(t, "Wordle FR #12 2/6", f.Header(12, 2, true))
		assert.Equal(t, "Wordle FR #12 X/6", f.Header(12, 0, false))
	})

	t.Run("share text", func(t *testing.T) {
		expected := "Wordle FR #12 2/6\n\n🟨⬛⬛⬛🟩\n🟩🟩🟩🟩🟩\n\n🎮 https://example.com/wordle"
		assert.Equal(t, expected, f.ShareText(12, 2, true, grid))
	})

	t.Run("notification text", func(t *testing.T) {
		duration := int64(83000)
		expected := "Wordle FR #12 2/6\n🟨⬜⬜⬜🟩\n🟩🟩🟩🟩🟩\n⏱️ 1:23 · 🔥 4"
		assert.Equal(t, expected, f.NotificationText(12, 2, true, grid, &duration, 4))
	})

	t.Run("notification text without extras", func(t *testing.T) {
		expected := "Wordle FR #12 2/6\n🟨⬜⬜⬜🟩\n🟩🟩🟩🟩🟩"
		assert.Equal(t, expected, f.NotificationText(12, 2, true, grid, nil, 1))
	})
}
