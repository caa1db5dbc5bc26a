package testutil

import (
	"time"

	"wordler/models"
)

// Day returns the calendar day value for a date
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTestPlayer creates a test player belonging to groupIDs
func CreateTestPlayer(discordID int64, username string, groupIDs ...int64) *models.Player {
	if groupIDs == nil {
		groupIDs = []int64{}
	}
	synced := time.Now().UTC().Truncate(time.Second)
	return &models.Player{
		DiscordID:      discordID,
		Username:       username,
		Avatar:         "a1b2c3",
		GroupIDs:       groupIDs,
		AccessToken:    "token-" + username,
		GroupsSyncedAt: &synced,
	}
}

// CreateTestPuzzle creates a puzzle for day
func CreateTestPuzzle(sequenceID int64, word string, day time.Time) *models.DailyPuzzle {
	return &models.DailyPuzzle{
		SequenceID:  sequenceID,
		Word:        word,
		CalendarDay: day,
	}
}

// CreateTestGameRecord creates a solved game record
func CreateTestGameRecord(playerID int64, puzzle *models.DailyPuzzle, attempts int) *models.GameRecord {
	duration := int64(61000)
	return &models.GameRecord{
		PlayerID:             playerID,
		PuzzleSequenceID:     puzzle.SequenceID,
		CalendarDay:          puzzle.CalendarDay,
		AttemptsUsed:         attempts,
		Guesses:              []string{"ABORD", puzzle.Word},
		Solved:               true,
		CompletionDurationMs: &duration,
	}
}

// CreateTestNotification creates a notification created at createdAt with
// a 24 hour lifetime
func CreateTestNotification(playerID, puzzleSequenceID int64, createdAt time.Time) *models.PendingNotification {
	return &models.PendingNotification{
		PlayerID:           playerID,
		PuzzleSequenceID:   puzzleSequenceID,
		GridText:           "Wordle FR #1 3/6",
		Image:              []byte{0x89, 0x50, 0x4e, 0x47},
		AttemptsUsed:       3,
		Solved:             true,
		StreakAtSubmission: 2,
		CreatedAt:          createdAt,
		ExpiresAt:          createdAt.Add(24 * time.Hour),
	}
}

// CreateTestDestination creates an active destination posting to channelID
func CreateTestDestination(groupID, channelID int64) *models.Destination {
	return &models.Destination{
		GroupID:         groupID,
		Name:            "guild",
		ResultChannelID: &channelID,
		AutoNotify:      true,
		IsActive:        true,
	}
}
