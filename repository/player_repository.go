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

// playerDB is a local struct for database mapping
type playerDB struct {
	DiscordID      int64      `db:"discord_id"`
	Username       string     `db:"username"`
	Avatar         string     `db:"avatar"`
	GroupIDs       []int64    `db:"group_ids"`
	AccessToken    string     `db:"access_token"`
	GroupsSyncedAt *time.Time `db:"groups_synced_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (p *playerDB) toDomain() *models.Player {
	return &models.Player{
		DiscordID:      p.DiscordID,
		Username:       p.Username,
		Avatar:         p.Avatar,
		GroupIDs:       p.GroupIDs,
		AccessToken:    p.AccessToken,
		GroupsSyncedAt: p.GroupsSyncedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

const playerColumns = `discord_id, username, avatar, group_ids, access_token, groups_synced_at, created_at, updated_at`

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var p playerDB
	err := row.Scan(
		&p.DiscordID,
		&p.Username,
		&p.Avatar,
		&p.GroupIDs,
		&p.AccessToken,
		&p.GroupsSyncedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p.toDomain(), nil
}

// PlayerRepository implements service.PlayerRepository
type PlayerRepository struct {
	q Queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// newPlayerRepositoryWithTx creates a new player repository with a transaction
func newPlayerRepositoryWithTx(tx Queryable) service.PlayerRepository {
	return &PlayerRepository{q: tx}
}

// GetByDiscordID retrieves a player by their Discord ID
func (r *PlayerRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE discord_id = $1`

	player, err := scanPlayer(r.q.QueryRow(ctx, query, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", discordID, err)
	}
	return player, nil
}

// GetByDiscordIDs retrieves the players that exist among discordIDs
func (r *PlayerRepository) GetByDiscordIDs(ctx context.Context, discordIDs []int64) ([]*models.Player, error) {
	if len(discordIDs) == 0 {
		return []*models.Player{}, nil
	}

	query := `SELECT ` + playerColumns + ` FROM players WHERE discord_id = ANY($1) ORDER BY discord_id`

	rows, err := r.q.Query(ctx, query, discordIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []*models.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// Upsert creates the player or refreshes profile and token. Groups are only
// replaced when the caller supplies a sync time.
func (r *PlayerRepository) Upsert(ctx context.Context, player *models.Player) error {
	groupIDs := player.GroupIDs
	if groupIDs == nil {
		groupIDs = []int64{}
	}

	query := `
		INSERT INTO players (discord_id, username, avatar, group_ids, access_token, groups_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (discord_id) DO UPDATE SET
			username = EXCLUDED.username,
			avatar = EXCLUDED.avatar,
			access_token = EXCLUDED.access_token,
			group_ids = CASE WHEN EXCLUDED.groups_synced_at IS NULL THEN players.group_ids ELSE EXCLUDED.group_ids END,
			groups_synced_at = COALESCE(EXCLUDED.groups_synced_at, players.groups_synced_at),
			updated_at = NOW()
		RETURNING group_ids, groups_synced_at, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		player.DiscordID,
		player.Username,
		player.Avatar,
		groupIDs,
		player.AccessToken,
		player.GroupsSyncedAt,
	).Scan(&player.GroupIDs, &player.GroupsSyncedAt, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player %d: %w", player.DiscordID, err)
	}
	return nil
}

// UpdateGroups replaces the stored group membership
func (r *PlayerRepository) UpdateGroups(ctx context.Context, discordID int64, groupIDs []int64, syncedAt time.Time) error {
	if groupIDs == nil {
		groupIDs = []int64{}
	}

	query := `
		UPDATE players
		SET group_ids = $2, groups_synced_at = $3, updated_at = NOW()
		WHERE discord_id = $1`

	result, err := r.q.Exec(ctx, query, discordID, groupIDs, syncedAt)
	if err != nil {
		return fmt.Errorf("failed to update groups for player %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: player %d", service.ErrNotFound, discordID)
	}
	return nil
}

// AddGroupMember appends groupID to the groups of the listed players that
// exist and do not already have it. The sync timestamp is left alone so the
// next OAuth refresh still replaces the list.
func (r *PlayerRepository) AddGroupMember(ctx context.Context, groupID int64, discordIDs []int64) (int64, error) {
	if len(discordIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE players
		SET group_ids = array_append(group_ids, $1), updated_at = NOW()
		WHERE discord_id = ANY($2) AND NOT ($1 = ANY(group_ids))`

	result, err := r.q.Exec(ctx, query, groupID, discordIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to add group %d to players: %w", groupID, err)
	}
	return result.RowsAffected(), nil
}
