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

// DestinationRepository implements service.DestinationRepository
type DestinationRepository struct {
	q Queryable
}

// NewDestinationRepository creates a new destination repository
func NewDestinationRepository(db *database.DB) *DestinationRepository {
	return &DestinationRepository{q: db.Pool}
}

func newDestinationRepositoryWithTx(tx Queryable) service.DestinationRepository {
	return &DestinationRepository{q: tx}
}

const destinationColumns = `group_id, name, result_channel_id, auto_notify, is_active, joined_at, left_at, updated_at`

func scanDestination(row pgx.Row) (*models.Destination, error) {
	var d models.Destination
	err := row.Scan(
		&d.GroupID,
		&d.Name,
		&d.ResultChannelID,
		&d.AutoNotify,
		&d.IsActive,
		&d.JoinedAt,
		&d.LeftAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Get retrieves a destination
func (r *DestinationRepository) Get(ctx context.Context, groupID int64) (*models.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE group_id = $1`

	dest, err := scanDestination(r.q.QueryRow(ctx, query, groupID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get destination %d: %w", groupID, err)
	}
	return dest, nil
}

// Upsert registers a destination or overwrites its settings
func (r *DestinationRepository) Upsert(ctx context.Context, d *models.Destination) error {
	joinedAt := d.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = time.Now()
	}

	query := `
		INSERT INTO destinations (group_id, name, result_channel_id, auto_notify, is_active, joined_at, left_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (group_id) DO UPDATE SET
			name = EXCLUDED.name,
			result_channel_id = EXCLUDED.result_channel_id,
			auto_notify = EXCLUDED.auto_notify,
			is_active = EXCLUDED.is_active,
			left_at = EXCLUDED.left_at,
			updated_at = NOW()
		RETURNING joined_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		d.GroupID,
		d.Name,
		d.ResultChannelID,
		d.AutoNotify,
		d.IsActive,
		joinedAt,
		d.LeftAt,
	).Scan(&d.JoinedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert destination %d: %w", d.GroupID, err)
	}
	return nil
}

// Deactivate marks a destination inactive
func (r *DestinationRepository) Deactivate(ctx context.Context, groupID int64, at time.Time) error {
	query := `
		UPDATE destinations
		SET is_active = FALSE, left_at = $2, updated_at = NOW()
		WHERE group_id = $1`

	result, err := r.q.Exec(ctx, query, groupID, at)
	if err != nil {
		return fmt.Errorf("failed to deactivate destination %d: %w", groupID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: destination %d", service.ErrNotFound, groupID)
	}
	return nil
}

// ListDeliverable returns active destinations with a channel and auto notify
// on, restricted to groupIDs unless it is nil
func (r *DestinationRepository) ListDeliverable(ctx context.Context, groupIDs []int64) ([]*models.Destination, error) {
	query := `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE is_active = TRUE
			AND auto_notify = TRUE
			AND result_channel_id IS NOT NULL
			AND ($1::BIGINT[] IS NULL OR group_id = ANY($1))
		ORDER BY group_id`

	var filter any
	if groupIDs != nil {
		filter = groupIDs
	}

	return r.list(ctx, query, filter)
}

// ListActive returns every active destination, with or without a channel
func (r *DestinationRepository) ListActive(ctx context.Context) ([]*models.Destination, error) {
	query := `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE is_active = TRUE
		ORDER BY group_id`

	return r.list(ctx, query)
}

func (r *DestinationRepository) list(ctx context.Context, query string, args ...any) ([]*models.Destination, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	destinations := []*models.Destination{}
	for rows.Next() {
		dest, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		destinations = append(destinations, dest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating destinations: %w", err)
	}
	return destinations, nil
}
