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

// pendingNotificationDB is a local struct for database mapping
type pendingNotificationDB struct {
	ID                   int64      `db:"id"`
	PlayerID             int64      `db:"player_id"`
	PuzzleSequenceID     int64      `db:"puzzle_sequence_id"`
	GridText             string     `db:"grid_text"`
	Image                []byte     `db:"image"`
	AttemptsUsed         int16      `db:"attempts_used"`
	Solved               bool       `db:"solved"`
	StreakAtSubmission   int32      `db:"streak_at_submission"`
	CompletionDurationMs *int64     `db:"completion_duration_ms"`
	IsProcessed          bool       `db:"is_processed"`
	ProcessedAt          *time.Time `db:"processed_at"`
	CreatedAt            time.Time  `db:"created_at"`
	ExpiresAt            time.Time  `db:"expires_at"`
}

func (n *pendingNotificationDB) toDomain() *models.PendingNotification {
	return &models.PendingNotification{
		ID:                   n.ID,
		PlayerID:             n.PlayerID,
		PuzzleSequenceID:     n.PuzzleSequenceID,
		GridText:             n.GridText,
		Image:                n.Image,
		AttemptsUsed:         int(n.AttemptsUsed),
		Solved:               n.Solved,
		StreakAtSubmission:   int(n.StreakAtSubmission),
		CompletionDurationMs: n.CompletionDurationMs,
		IsProcessed:          n.IsProcessed,
		ProcessedAt:          n.ProcessedAt,
		CreatedAt:            n.CreatedAt,
		ExpiresAt:            n.ExpiresAt,
	}
}

const notificationColumns = `id, player_id, puzzle_sequence_id, grid_text, image, attempts_used, solved,
	streak_at_submission, completion_duration_ms, is_processed, processed_at, created_at, expires_at`

func scanNotification(row pgx.Row) (*models.PendingNotification, error) {
	var n pendingNotificationDB
	err := row.Scan(
		&n.ID,
		&n.PlayerID,
		&n.PuzzleSequenceID,
		&n.GridText,
		&n.Image,
		&n.AttemptsUsed,
		&n.Solved,
		&n.StreakAtSubmission,
		&n.CompletionDurationMs,
		&n.IsProcessed,
		&n.ProcessedAt,
		&n.CreatedAt,
		&n.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return n.toDomain(), nil
}

// PendingNotificationRepository implements service.PendingNotificationRepository
type PendingNotificationRepository struct {
	q Queryable
}

// NewPendingNotificationRepository creates a new pending notification repository
func NewPendingNotificationRepository(db *database.DB) *PendingNotificationRepository {
	return &PendingNotificationRepository{q: db.Pool}
}

func newPendingNotificationRepositoryWithTx(tx Queryable) service.PendingNotificationRepository {
	return &PendingNotificationRepository{q: tx}
}

// Create inserts a notification. CreatedAt is taken from the notification
// when set so that ExpiresAt stays CreatedAt plus the TTL.
func (r *PendingNotificationRepository) Create(ctx context.Context, n *models.PendingNotification) error {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO pending_notifications (player_id, puzzle_sequence_id, grid_text, image, attempts_used, solved,
			streak_at_submission, completion_duration_ms, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		n.PlayerID,
		n.PuzzleSequenceID,
		n.GridText,
		n.Image,
		n.AttemptsUsed,
		n.Solved,
		n.StreakAtSubmission,
		n.CompletionDurationMs,
		createdAt,
		n.ExpiresAt,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return mapWriteError(err, "create pending notification")
	}
	return nil
}

// ListActive returns unprocessed notifications that have not expired at now
func (r *PendingNotificationRepository) ListActive(ctx context.Context, now time.Time) ([]*models.PendingNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM pending_notifications
		WHERE is_processed = FALSE AND expires_at > $1
		ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.PendingNotification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending notifications: %w", err)
	}
	return notifications, nil
}

// GetActive returns the active notification of a player's game
func (r *PendingNotificationRepository) GetActive(ctx context.Context, playerID, puzzleSequenceID int64, now time.Time) (*models.PendingNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM pending_notifications
		WHERE player_id = $1 AND puzzle_sequence_id = $2
			AND is_processed = FALSE AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1`

	n, err := scanNotification(r.q.QueryRow(ctx, query, playerID, puzzleSequenceID, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active notification: %w", err)
	}
	return n, nil
}

// MarkProcessed flags the given notifications and returns how many changed
func (r *PendingNotificationRepository) MarkProcessed(ctx context.Context, ids []int64, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE pending_notifications
		SET is_processed = TRUE, processed_at = $2
		WHERE id = ANY($1) AND is_processed = FALSE`

	result, err := r.q.Exec(ctx, query, ids, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications processed: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteExpired removes notifications whose expiry has passed
func (r *PendingNotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM pending_notifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", err)
	}
	return result.RowsAffected(), nil
}

// DistinctPendingAuthors returns the players with an active notification
func (r *PendingNotificationRepository) DistinctPendingAuthors(ctx context.Context, now time.Time) ([]int64, error) {
	query := `
		SELECT DISTINCT player_id
		FROM pending_notifications
		WHERE is_processed = FALSE AND expires_at > $1
		ORDER BY player_id`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending authors: %w", err)
	}
	defer rows.Close()

	authors := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pending author: %w", err)
		}
		authors = append(authors, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending authors: %w", err)
	}
	return authors, nil
}
