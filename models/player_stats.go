package models

import (
	"fmt"
	"math"
	"time"
)

// PlayerStats is the per-player aggregate, updated once per GameRecord
type PlayerStats struct {
	PlayerID      int64
	TotalGames    int
	TotalWins     int
	CurrentStreak int
	MaxStreak     int
	// GuessDistribution[i] counts wins in i+1 attempts
	GuessDistribution [MaxAttempts]int
	LastPlayedDay     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewPlayerStats returns a zeroed record for playerID
func NewPlayerStats(playerID int64) *PlayerStats {
	return &PlayerStats{PlayerID: playerID}
}

// RecordResult applies one completed game played on day.
// A win extends the streak only when the previous game was on the day
// before; any loss resets it to zero. MaxStreak never decreases.
func (s *PlayerStats) RecordResult(attempts int, solved bool, day time.Time) error {
	if solved && (attempts < 1 || attempts > MaxAttempts) {
		return fmt.Errorf("solved game must use between 1 and %d attempts, got %d", MaxAttempts, attempts)
	}

	s.TotalGames++

	if solved {
		s.TotalWins++
		if s.LastPlayedDay != nil && IsNextDay(*s.LastPlayedDay, day) {
			s.CurrentStreak++
		} else {
			s.CurrentStreak = 1
		}
		if s.CurrentStreak > s.MaxStreak {
			s.MaxStreak = s.CurrentStreak
		}
		s.GuessDistribution[attempts-1]++
	} else {
		s.CurrentStreak = 0
	}

	played := day
	s.LastPlayedDay = &played
	return nil
}

// WinPercentage is the rounded share of games won, 0 before the first game
func (s *PlayerStats) WinPercentage() int {
	if s.TotalGames == 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalWins) / float64(s.TotalGames) * 100))
}

// Distribution returns the histogram keyed by attempt count
func (s *PlayerStats) Distribution() map[int]int {
	dist := make(map[int]int, MaxAttempts)
	for i, count := range s.GuessDistribution {
		dist[i+1] = count
	}
	return dist
}
