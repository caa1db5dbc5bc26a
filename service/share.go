package service

import (
	"fmt"
	"strings"

	"wordler/models"
)

const (
	glyphCorrect     = "🟩"
	glyphPresent     = "🟨"
	glyphAbsentShare = "⬛"
	glyphAbsentChat  = "⬜" // reads better on Discord's dark theme
)

// ShareFormatter renders game results as emoji text
type ShareFormatter struct {
	Title string
	URL   string
}

// Header renders "<title> #<id> <attempts|X>/6"
func (f ShareFormatter) Header(puzzleID int64, attempts int, solved bool) string {
	return fmt.Sprintf("%s #%d %s", f.Title, puzzleID, models.AttemptsLabel(attempts, solved))
}

// ShareText renders the clipboard text: header, blank line, grid, link
func (f ShareFormatter) ShareText(puzzleID int64, attempts int, solved bool, grid models.GuessGrid) string {
	lines := []string{f.Header(puzzleID, attempts, solved), ""}
	lines = append(lines, GridRows(grid, glyphAbsentShare)...)
	if f.URL != "" {
		lines = append(lines, "", "🎮 "+f.URL)
	}
	return strings.Join(lines, "\n")
}

// NotificationText renders the text posted to a guild for one game
func (f ShareFormatter) NotificationText(puzzleID int64, attempts int, solved bool, grid models.GuessGrid, durationMs *int64, streak int) string {
	lines := []string{f.Header(puzzleID, attempts, solved)}
	lines = append(lines, GridRows(grid, glyphAbsentChat)...)

	var extras []string
	if durationMs != nil {
		extras = append(extras, "⏱️ "+models.FormatDuration(*durationMs))
	}
	if streak > 1 {
		extras = append(extras, fmt.Sprintf("🔥 %d", streak))
	}
	if len(extras) > 0 {
		lines = append(lines, strings.Join(extras, " · "))
	}
	return strings.Join(lines, "\n")
}

// GridRows renders one line of squares per guess
func GridRows(grid models.GuessGrid, absentGlyph string) []string {
	rows := make([]string, 0, len(grid))
	for _, row := range grid {
		var b strings.Builder
		for _, status := range row {
			switch status {
			case models.LetterCorrect:
				b.WriteString(glyphCorrect)
			case models.LetterPresent:
				b.WriteString(glyphPresent)
			default:
				b.WriteString(absentGlyph)
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}
