package models

import "time"

// GameRecord is one player's completed game for one puzzle
type GameRecord struct {
	ID                   int64
	PlayerID             int64
	PuzzleSequenceID     int64
	CalendarDay          time.Time
	AttemptsUsed         int // 0 when the puzzle was not solved
	Guesses              []string
	Solved               bool
	CompletionDurationMs *int64
	CreatedAt            time.Time
}

// AttemptsLabel renders the score as "3/6", or "X/6" when unsolved
func (g *GameRecord) AttemptsLabel() string {
	return AttemptsLabel(g.AttemptsUsed, g.Solved)
}
