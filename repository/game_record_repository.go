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

// gameRecordDB is a local struct for database mapping
type gameRecordDB struct {
	ID                   int64     `db:"id"`
	PlayerID             int64     `db:"player_id"`
	PuzzleSequenceID     int64     `db:"puzzle_sequence_id"`
	CalendarDay          time.Time `db:"calendar_day"`
	AttemptsUsed         int16     `db:"attempts_used"`
	Guesses              []string  `db:"guesses"`
	Solved               bool      `db:"solved"`
	CompletionDurationMs *int64    `db:"completion_duration_ms"`
	CreatedAt            time.Time `db:"created_at"`
}

func (g *gameRecordDB) toDomain() *models.GameRecord {
	return &models.GameRecord{
		ID:                   g.ID,
		PlayerID:             g.PlayerID,
		PuzzleSequenceID:     g.PuzzleSequenceID,
		CalendarDay:          g.CalendarDay,
		AttemptsUsed:         int(g.AttemptsUsed),
		Guesses:              g.Guesses,
		Solved:               g.Solved,
		CompletionDurationMs: g.CompletionDurationMs,
		CreatedAt:            g.CreatedAt,
	}
}

// GameRecordRepository implements service.GameRecordRepository
type GameRecordRepository struct {
	q Queryable
}

// NewGameRecordRepository creates a new game record repository
func NewGameRecordRepository(db *database.DB) *GameRecordRepository {
	return &GameRecordRepository{q: db.Pool}
}

func newGameRecordRepositoryWithTx(tx Queryable) service.GameRecordRepository {
	return &GameRecordRepository{q: tx}
}

// Create inserts a record. A second record for the same player and puzzle
// violates game_records_player_puzzle_key and comes back as ErrConflict.
func (r *GameRecordRepository) Create(ctx context.Context, record *models.GameRecord) error {
	guesses := record.Guesses
	if guesses == nil {
		guesses = []string{}
	}

	query := `
		INSERT INTO game_records (player_id, puzzle_sequence_id, calendar_day, attempts_used, guesses, solved, completion_duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		record.PlayerID,
		record.PuzzleSequenceID,
		record.CalendarDay,
		record.AttemptsUsed,
		guesses,
		record.Solved,
		record.CompletionDurationMs,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return mapWriteError(err, "create game record")
	}
	return nil
}

// Get retrieves a player's record for a puzzle
func (r *GameRecordRepository) Get(ctx context.Context, playerID, puzzleSequenceID int64) (*models.GameRecord, error) {
	query := `
		SELECT id, player_id, puzzle_sequence_id, calendar_day, attempts_used, guesses, solved, completion_duration_ms, created_at
		FROM game_records
		WHERE player_id = $1 AND puzzle_sequence_id = $2`

	var g gameRecordDB
	err := r.q.QueryRow(ctx, query, playerID, puzzleSequenceID).Scan(
		&g.ID,
		&g.PlayerID,
		&g.PuzzleSequenceID,
		&g.CalendarDay,
		&g.AttemptsUsed,
		&g.Guesses,
		&g.Solved,
		&g.CompletionDurationMs,
		&g.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game for player %d puzzle %d: %w", playerID, puzzleSequenceID, err)
	}
	return g.toDomain(), nil
}
