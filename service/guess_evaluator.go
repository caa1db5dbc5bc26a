package service

import "wordler/models"

// Evaluate classifies each letter of guess against target.
//
// Exact matches are taken first and consume their target position. The
// remaining letters then take the leftmost unconsumed equal target letter,
// so a repeated guess letter is marked present at most as many times as it
// is still unmatched in the target. Comparison is per rune, so accented
// letters count as one position.
func Evaluate(guess, target string) []models.LetterStatus {
	g := []rune(guess)
	t := []rune(target)

	result := make([]models.LetterStatus, len(g))
	consumed := make([]bool, len(t))

	for i := range g {
		if i < len(t) && g[i] == t[i] {
			result[i] = models.LetterCorrect
			consumed[i] = true
		}
	}

	for i := range g {
		if result[i] == models.LetterCorrect {
			continue
		}
		for j := range t {
			if !consumed[j] && t[j] == g[i] {
				result[i] = models.LetterPresent
				consumed[j] = true
				break
			}
		}
	}

	return result
}

// EvaluateAll builds the grid of a whole game, one row per guess
func EvaluateAll(guesses []string, target string) models.GuessGrid {
	grid := make(models.GuessGrid, 0, len(guesses))
	for _, guess := range guesses {
		grid = append(grid, Evaluate(guess, target))
	}
	return grid
}
