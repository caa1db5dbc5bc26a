package models

import "time"

// PendingNotification is one player's result waiting to be posted to their
// groups. It stops being served once processed or past ExpiresAt.
type PendingNotification struct {
	ID                   int64
	PlayerID             int64
	PuzzleSequenceID     int64
	GridText             string
	Image                []byte
	AttemptsUsed         int
	Solved               bool
	StreakAtSubmission   int
	CompletionDurationMs *int64
	IsProcessed          bool
	ProcessedAt          *time.Time
	CreatedAt            time.Time
	ExpiresAt            time.Time
}

// IsActive reports whether the notification can still be aggregated at now
func (n *PendingNotification) IsActive(now time.Time) bool {
	return !n.IsProcessed && now.Before(n.ExpiresAt)
}
