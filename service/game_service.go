package service

import (
	"context"
	"fmt"

	"wordler/events"
	"wordler/models"

	log "github.com/sirupsen/logrus"
)

// GameSubmission is a completed game as reported by the player's client
type GameSubmission struct {
	PlayerID             int64
	PuzzleSequenceID     int64
	Attempts             int
	Guesses              []string
	Solved               bool
	CompletionDurationMs *int64
}

// Validate rejects malformed submissions before anything is read or written
func (s GameSubmission) Validate() error {
	if s.PlayerID <= 0 {
		return validationError("player id is required")
	}
	if s.PuzzleSequenceID <= 0 {
		return validationError("wordId is required")
	}
	if s.Attempts < 0 || s.Attempts > models.MaxAttempts {
		return validationError("attempts must be between 0 and %d, got %d", models.MaxAttempts, s.Attempts)
	}
	if s.Solved && s.Attempts == 0 {
		return validationError("a solved game needs at least one attempt")
	}
	if s.CompletionDurationMs != nil && *s.CompletionDurationMs < 0 {
		return validationError("timeToComplete must not be negative")
	}
	return nil
}

// FilterGuesses keeps the well-formed words of guesses, uppercased, and
// drops empty or partial rows
func FilterGuesses(guesses []string) []string {
	out := make([]string, 0, len(guesses))
	for _, g := range guesses {
		if word, ok := models.NormalizeWord(g); ok {
			out = append(out, word)
		}
	}
	return out
}

// gameService implements the GameService interface
type gameService struct {
	uowFactory UnitOfWorkFactory
	stats      StatsService
	clock      Clock
	metrics    MetricsRecorder
}

// NewGameService creates a new game service. Submitted games are applied to
// player stats through stats.
func NewGameService(uowFactory UnitOfWorkFactory, stats StatsService, clock Clock, metrics MetricsRecorder) GameService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &gameService{
		uowFactory: uowFactory,
		stats:      stats,
		clock:      clock,
		metrics:    metrics,
	}
}

// SubmitGame stores the game and applies it to the player's stats in one
// transaction. A second submission for the same puzzle is ErrConflict and
// leaves the stats untouched.
func (s *gameService) SubmitGame(ctx context.Context, submission GameSubmission) (*models.PlayerStats, error) {
	if err := submission.Validate(); err != nil {
		return nil, err
	}
	guesses := FilterGuesses(submission.Guesses)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	puzzle, err := uow.DailyPuzzleRepository().GetBySequenceID(ctx, submission.PuzzleSequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get puzzle: %w", err)
	}
	if puzzle == nil {
		return nil, validationError("invalid wordId %d", submission.PuzzleSequenceID)
	}

	player, err := uow.PlayerRepository().GetByDiscordID(ctx, submission.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, notFoundError("player %d", submission.PlayerID)
	}

	existing, err := uow.GameRecordRepository().Get(ctx, submission.PlayerID, puzzle.SequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing game: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already played puzzle %d", ErrConflict, puzzle.SequenceID)
	}

	record := &models.GameRecord{
		PlayerID:             submission.PlayerID,
		PuzzleSequenceID:     puzzle.SequenceID,
		CalendarDay:          puzzle.CalendarDay,
		AttemptsUsed:         submission.Attempts,
		Guesses:              guesses,
		Solved:               submission.Solved,
		CompletionDurationMs: submission.CompletionDurationMs,
	}
	if err := uow.GameRecordRepository().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	stats, err := s.stats.RecordGame(ctx, uow, submission.PlayerID, submission.Attempts, submission.Solved, puzzle.CalendarDay)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.GameCompletedEvent{
		PlayerID:         record.PlayerID,
		PuzzleSequenceID: record.PuzzleSequenceID,
		CalendarDay:      record.CalendarDay,
		AttemptsUsed:     record.AttemptsUsed,
		Solved:           record.Solved,
		CurrentStreak:    stats.CurrentStreak,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit game: %w", err)
	}

	s.metrics.RecordGameSubmitted(record.Solved)
	log.WithFields(log.Fields{
		"playerId": record.PlayerID,
		"wordId":   record.PuzzleSequenceID,
		"solved":   record.Solved,
		"attempts": record.AttemptsUsed,
		"streak":   stats.CurrentStreak,
	}).Info("Game submitted")

	return stats, nil
}

// GetTodayGame returns the player's game for today's puzzle, nil when the
// player has not played or today's puzzle does not exist yet
func (s *gameService) GetTodayGame(ctx context.Context, playerID int64) (*models.GameRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	puzzle, err := uow.DailyPuzzleRepository().GetByDay(ctx, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to get today's puzzle: %w", err)
	}
	if puzzle == nil {
		return nil, nil
	}

	record, err := uow.GameRecordRepository().Get(ctx, playerID, puzzle.SequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return record, nil
}

// GetGame returns the player's game for a puzzle, nil if not played
func (s *gameService) GetGame(ctx context.Context, playerID, puzzleSequenceID int64) (*models.GameRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	record, err := uow.GameRecordRepository().Get(ctx, playerID, puzzleSequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return record, nil
}
