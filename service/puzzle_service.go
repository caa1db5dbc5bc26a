package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"wordler/events"
	"wordler/models"

	log "github.com/sirupsen/logrus"
)

// maxPuzzleCreateAttempts bounds retries when concurrent requests race to
// create the same day's puzzle
const maxPuzzleCreateAttempts = 3

// WordSource supplies the candidate words, in a stable order
type WordSource interface {
	Words() []string
}

// PuzzleConfig holds the selection policy
type PuzzleConfig struct {
	RecencyWindowDays int
	Salt              string
}

// puzzleService implements the PuzzleService interface
type puzzleService struct {
	uowFactory UnitOfWorkFactory
	words      WordSource
	clock      Clock
	config     PuzzleConfig
	metrics    MetricsRecorder
}

// NewPuzzleService creates a new puzzle service
func NewPuzzleService(uowFactory UnitOfWorkFactory, words WordSource, clock Clock, config PuzzleConfig, metrics MetricsRecorder) PuzzleService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &puzzleService{
		uowFactory: uowFactory,
		words:      words,
		clock:      clock,
		config:     config,
		metrics:    metrics,
	}
}

// Today returns the current calendar day in the reference timezone
func (s *puzzleService) Today() time.Time {
	return s.clock.Today()
}

// GetOrCreateTodayPuzzle returns today's puzzle. The unique calendar day
// constraint decides concurrent creators: a loser gets ErrConflict from the
// insert and re-reads the winner's row.
func (s *puzzleService) GetOrCreateTodayPuzzle(ctx context.Context) (*models.DailyPuzzle, error) {
	today := s.clock.Today()

	for attempt := 1; attempt <= maxPuzzleCreateAttempts; attempt++ {
		puzzle, err := s.getOrCreate(ctx, today)
		if err == nil {
			return puzzle, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}

		log.WithFields(log.Fields{
			"day":     models.FormatDay(today),
			"attempt": attempt,
		}).Debug("Lost daily puzzle creation race, re-reading")
	}

	return nil, fmt.Errorf("failed to settle puzzle for %s after %d attempts: %w", models.FormatDay(today), maxPuzzleCreateAttempts, ErrConflict)
}

func (s *puzzleService) getOrCreate(ctx context.Context, today time.Time) (*models.DailyPuzzle, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.DailyPuzzleRepository()

	existing, err := repo.GetByDay(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get puzzle for %s: %w", models.FormatDay(today), err)
	}
	if existing != nil {
		return existing, nil
	}

	maxSequenceID, err := repo.GetMaxSequenceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sequence id: %w", err)
	}
	nextSequenceID := maxSequenceID + 1

	windowStart := today.AddDate(0, 0, -s.config.RecencyWindowDays)
	recentWords, err := repo.GetWordsBetween(ctx, windowStart, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent words: %w", err)
	}

	recent := make(map[string]struct{}, len(recentWords))
	for _, w := range recentWords {
		recent[w] = struct{}{}
	}

	word := SelectWord(s.words.Words(), recent, nextSequenceID, s.config.Salt)
	if word == "" {
		return nil, fmt.Errorf("word bank is empty")
	}

	puzzle := &models.DailyPuzzle{
		SequenceID:  nextSequenceID,
		Word:        word,
		CalendarDay: today,
	}
	if err := repo.Create(ctx, puzzle); err != nil {
		return nil, fmt.Errorf("failed to create puzzle: %w", err)
	}

	uow.EventBus().Publish(events.PuzzleCreatedEvent{
		SequenceID:  puzzle.SequenceID,
		CalendarDay: puzzle.CalendarDay,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit puzzle: %w", err)
	}

	s.metrics.RecordPuzzleCreated()
	log.WithFields(log.Fields{
		"wordId": puzzle.SequenceID,
		"day":    models.FormatDay(today),
		"recent": len(recent),
	}).Info("Created daily puzzle")

	return puzzle, nil
}

// GetBySequenceID retrieves a puzzle by id
func (s *puzzleService) GetBySequenceID(ctx context.Context, sequenceID int64) (*models.DailyPuzzle, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	puzzle, err := uow.DailyPuzzleRepository().GetBySequenceID(ctx, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get puzzle %d: %w", sequenceID, err)
	}
	if puzzle == nil {
		return nil, notFoundError("puzzle %d", sequenceID)
	}
	return puzzle, nil
}

// SelectWord picks the word for a sequence id. Words in recent are skipped
// unless that leaves nothing, in which case any word may repeat. The choice
// is a hash of salt and sequence id, so it is stable across processes.
func SelectWord(words []string, recent map[string]struct{}, sequenceID int64, salt string) string {
	candidates := make([]string, 0, len(words))
	for _, w := range words {
		if _, used := recent[w]; !used {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		candidates = words
	}
	if len(candidates) == 0 {
		return ""
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", salt, sequenceID)
	return candidates[h.Sum64()%uint64(len(candidates))]
}
