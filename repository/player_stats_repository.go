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

// playerStatsDB is a local struct for database mapping
type playerStatsDB struct {
	PlayerID          int64      `db:"player_id"`
	TotalGames        int32      `db:"total_games"`
	TotalWins         int32      `db:"total_wins"`
	CurrentStreak     int32      `db:"current_streak"`
	MaxStreak         int32      `db:"max_streak"`
	GuessDistribution []int32    `db:"guess_distribution"`
	LastPlayedDay     *time.Time `db:"last_played_day"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func (s *playerStatsDB) toDomain() *models.PlayerStats {
	stats := &models.PlayerStats{
		PlayerID:      s.PlayerID,
		TotalGames:    int(s.TotalGames),
		TotalWins:     int(s.TotalWins),
		CurrentStreak: int(s.CurrentStreak),
		MaxStreak:     int(s.MaxStreak),
		LastPlayedDay: s.LastPlayedDay,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for i := 0; i < len(s.GuessDistribution) && i < models.MaxAttempts; i++ {
		stats.GuessDistribution[i] = int(s.GuessDistribution[i])
	}
	return stats
}

func distributionToDB(dist [models.MaxAttempts]int) []int32 {
	out := make([]int32, models.MaxAttempts)
	for i, v := range dist {
		out[i] = int32(v)
	}
	return out
}

const statsColumns = `player_id, total_games, total_wins, current_streak, max_streak, guess_distribution, last_played_day, created_at, updated_at`

func scanStats(row pgx.Row) (*models.PlayerStats, error) {
	var s playerStatsDB
	err := row.Scan(
		&s.PlayerID,
		&s.TotalGames,
		&s.TotalWins,
		&s.CurrentStreak,
		&s.MaxStreak,
		&s.GuessDistribution,
		&s.LastPlayedDay,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s.toDomain(), nil
}

// PlayerStatsRepository implements service.PlayerStatsRepository
type PlayerStatsRepository struct {
	q Queryable
}

// NewPlayerStatsRepository creates a new player stats repository
func NewPlayerStatsRepository(db *database.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{q: db.Pool}
}

func newPlayerStatsRepositoryWithTx(tx Queryable) service.PlayerStatsRepository {
	return &PlayerStatsRepository{q: tx}
}

// Get retrieves a player's stats
func (r *PlayerStatsRepository) Get(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	return r.get(ctx, `SELECT `+statsColumns+` FROM player_stats WHERE player_id = $1`, playerID)
}

// GetForUpdate retrieves and locks a player's stats until the transaction ends
func (r *PlayerStatsRepository) GetForUpdate(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	return r.get(ctx, `SELECT `+statsColumns+` FROM player_stats WHERE player_id = $1 FOR UPDATE`, playerID)
}

func (r *PlayerStatsRepository) get(ctx context.Context, query string, playerID int64) (*models.PlayerStats, error) {
	stats, err := scanStats(r.q.QueryRow(ctx, query, playerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for player %d: %w", playerID, err)
	}
	return stats, nil
}

// Create inserts stats, leaving an existing row untouched
func (r *PlayerStatsRepository) Create(ctx context.Context, stats *models.PlayerStats) error {
	query := `
		INSERT INTO player_stats (player_id, total_games, total_wins, current_streak, max_streak, guess_distribution, last_played_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id) DO NOTHING`

	_, err := r.q.Exec(ctx, query,
		stats.PlayerID,
		stats.TotalGames,
		stats.TotalWins,
		stats.CurrentStreak,
		stats.MaxStreak,
		distributionToDB(stats.GuessDistribution),
		stats.LastPlayedDay,
	)
	if err != nil {
		return fmt.Errorf("failed to create stats for player %d: %w", stats.PlayerID, err)
	}
	return nil
}

// Update persists all counters of stats
func (r *PlayerStatsRepository) Update(ctx context.Context, stats *models.PlayerStats) error {
	query := `
		UPDATE player_stats
		SET total_games = $2,
			total_wins = $3,
			current_streak = $4,
			max_streak = $5,
			guess_distribution = $6,
			last_played_day = $7,
			updated_at = NOW()
		WHERE player_id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query,
		stats.PlayerID,
		stats.TotalGames,
		stats.TotalWins,
		stats.CurrentStreak,
		stats.MaxStreak,
		distributionToDB(stats.GuessDistribution),
		stats.LastPlayedDay,
	).Scan(&stats.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: stats for player %d", service.ErrNotFound, stats.PlayerID)
	}
	if err != nil {
		return fmt.Errorf("failed to update stats for player %d: %w", stats.PlayerID, err)
	}
	return nil
}

// ListWithMinGames returns the stats of players with at least minGames games
func (r *PlayerStatsRepository) ListWithMinGames(ctx context.Context, minGames int) ([]*models.PlayerStats, error) {
	query := `SELECT ` + statsColumns + ` FROM player_stats WHERE total_games >= $1 ORDER BY player_id`

	rows, err := r.q.Query(ctx, query, minGames)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	all := []*models.PlayerStats{}
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		all = append(all, stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}
	return all, nil
}
