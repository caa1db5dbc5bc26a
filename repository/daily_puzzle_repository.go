package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wordler/database"
	"wordler/models"
	"wordler/service"

	"github.com/jackc/pgx/v5"
)

// DailyPuzzleRepository implements service.DailyPuzzleRepository
type DailyPuzzleRepository struct {
	q Queryable
}

// NewDailyPuzzleRepository creates a new daily puzzle repository
func NewDailyPuzzleRepository(db *database.DB) *DailyPuzzleRepository {
	return &DailyPuzzleRepository{q: db.Pool}
}

func newDailyPuzzleRepositoryWithTx(tx Queryable) service.DailyPuzzleRepository {
	return &DailyPuzzleRepository{q: tx}
}

const puzzleColumns = `sequence_id, word, calendar_day, created_at`

func scanPuzzle(row pgx.Row) (*models.DailyPuzzle, error) {
	var p models.DailyPuzzle
	if err := row.Scan(&p.SequenceID, &p.Word, &p.CalendarDay, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByDay retrieves the puzzle of a calendar day
func (r *DailyPuzzleRepository) GetByDay(ctx context.Context, day time.Time) (*models.DailyPuzzle, error) {
	query := `SELECT ` + puzzleColumns + ` FROM daily_puzzles WHERE calendar_day = $1`

	puzzle, err := scanPuzzle(r.q.QueryRow(ctx, query, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get puzzle for %s: %w", models.FormatDay(day), err)
	}
	return puzzle, nil
}

// GetBySequenceID retrieves a puzzle by its sequence id
func (r *DailyPuzzleRepository) GetBySequenceID(ctx context.Context, sequenceID int64) (*models.DailyPuzzle, error) {
	query := `SELECT ` + puzzleColumns + ` FROM daily_puzzles WHERE sequence_id = $1`

	puzzle, err := scanPuzzle(r.q.QueryRow(ctx, query, sequenceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get puzzle %d: %w", sequenceID, err)
	}
	return puzzle, nil
}

// GetMaxSequenceID returns the highest sequence id, 0 for an empty log
func (r *DailyPuzzleRepository) GetMaxSequenceID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(sequence_id), 0) FROM daily_puzzles`).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to get max sequence id: %w", err)
	}
	return maxID, nil
}

// GetWordsBetween returns the distinct words of puzzles dated in [from, to)
func (r *DailyPuzzleRepository) GetWordsBetween(ctx context.Context, from, to time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT word
		FROM daily_puzzles
		WHERE calendar_day >= $1 AND calendar_day < $2
		ORDER BY word`

	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent words: %w", err)
	}

	words, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect recent words: %w", err)
	}
	return words, nil
}

// Create inserts a puzzle. The unique calendar day decides concurrent creators.
func (r *DailyPuzzleRepository) Create(ctx context.Context, puzzle *models.DailyPuzzle) error {
	query := `
		INSERT INTO daily_puzzles (sequence_id, word, calendar_day)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.q.QueryRow(ctx, query, puzzle.SequenceID, puzzle.Word, puzzle.CalendarDay).Scan(&puzzle.CreatedAt)
	if err != nil {
		return mapWriteError(err, "create daily puzzle")
	}
	return nil
}
