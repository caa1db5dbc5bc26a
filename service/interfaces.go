package service

import (
	"context"
	"time"

	"wordler/events"
	"wordler/models"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	// GetByDiscordID retrieves a player, nil if not found
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Player, error)

	// GetByDiscordIDs retrieves the players that exist among discordIDs
	GetByDiscordIDs(ctx context.Context, discordIDs []int64) ([]*models.Player, error)

	// Upsert creates the player or refreshes profile, token and groups
	Upsert(ctx context.Context, player *models.Player) error

	// UpdateGroups replaces the stored group membership
	UpdateGroups(ctx context.Context, discordID int64, groupIDs []int64, syncedAt time.Time) error

	// AddGroupMember adds groupID to each existing player among discordIDs
	// and returns how many players gained it
	AddGroupMember(ctx context.Context, groupID int64, discordIDs []int64) (int64, error)
}

// DailyPuzzleRepository defines the interface for the append-only puzzle log
type DailyPuzzleRepository interface {
	// GetByDay retrieves the puzzle of a calendar day, nil if none exists
	GetByDay(ctx context.Context, day time.Time) (*models.DailyPuzzle, error)

	// GetBySequenceID retrieves a puzzle by its sequence id, nil if not found
	GetBySequenceID(ctx context.Context, sequenceID int64) (*models.DailyPuzzle, error)

	// GetMaxSequenceID returns the highest sequence id, 0 when the log is empty
	GetMaxSequenceID(ctx context.Context) (int64, error)

	// GetWordsBetween returns the distinct words of puzzles dated in [from, to)
	GetWordsBetween(ctx context.Context, from, to time.Time) ([]string, error)

	// Create inserts a puzzle. Returns ErrConflict when the day or
	// sequence id is already taken.
	Create(ctx context.Context, puzzle *models.DailyPuzzle) error
}

// GameRecordRepository defines the interface for completed games
type GameRecordRepository interface {
	// Create inserts a game record. Returns ErrConflict when the player
	// already has a record for the puzzle.
	Create(ctx context.Context, record *models.GameRecord) error

	// Get retrieves a player's record for a puzzle, nil if not played
	Get(ctx context.Context, playerID, puzzleSequenceID int64) (*models.GameRecord, error)
}

// PlayerStatsRepository defines the interface for per-player aggregates
type PlayerStatsRepository interface {
	// Get retrieves a player's stats, nil if none exist yet
	Get(ctx context.Context, playerID int64) (*models.PlayerStats, error)

	// GetForUpdate retrieves and row-locks a player's stats, nil if none exist yet
	GetForUpdate(ctx context.Context, playerID int64) (*models.PlayerStats, error)

	// Create inserts zeroed stats, leaving an existing row untouched
	Create(ctx context.Context, stats *models.PlayerStats) error

	// Update persists all counters of stats
	Update(ctx context.Context, stats *models.PlayerStats) error

	// ListWithMinGames returns stats of every player with at least minGames games
	ListWithMinGames(ctx context.Context, minGames int) ([]*models.PlayerStats, error)
}

// PendingNotificationRepository defines the interface for queued results
type PendingNotificationRepository interface {
	// Create inserts a notification and fills its ID and CreatedAt
	Create(ctx context.Context, notification *models.PendingNotification) error

	// ListActive returns unprocessed notifications not yet expired at now,
	// oldest first
	ListActive(ctx context.Context, now time.Time) ([]*models.PendingNotification, error)

	// GetActive returns the active notification of a player's game, nil if none
	GetActive(ctx context.Context, playerID, puzzleSequenceID int64, now time.Time) (*models.PendingNotification, error)

	// MarkProcessed flags the given notifications, skipping those already
	// processed, and returns how many rows changed
	MarkProcessed(ctx context.Context, ids []int64, at time.Time) (int64, error)

	// DeleteExpired removes notifications whose expiry is before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// DistinctPendingAuthors returns the players with an active notification
	// at now, in ascending order
	DistinctPendingAuthors(ctx context.Context, now time.Time) ([]int64, error)
}

// DestinationRepository defines the interface for Discord guild destinations
type DestinationRepository interface {
	// Get retrieves a destination, nil if not registered
	Get(ctx context.Context, groupID int64) (*models.Destination, error)

	// Upsert registers or reactivates a destination
	Upsert(ctx context.Context, destination *models.Destination) error

	// Deactivate marks a destination inactive
	Deactivate(ctx context.Context, groupID int64, at time.Time) error

	// ListDeliverable returns active destinations with a result channel and
	// auto notify on. A nil groupIDs means every group.
	ListDeliverable(ctx context.Context, groupIDs []int64) ([]*models.Destination, error)

	// ListActive returns every destination the bot is still in
	ListActive(ctx context.Context) ([]*models.Destination, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// GridRenderer renders a guess grid to an image blob
type GridRenderer interface {
	RenderGrid(grid models.GuessGrid, authorName, avatarRef string) ([]byte, error)
}

// ImageComposer combines several image blobs into one
type ImageComposer interface {
	Compose(images [][]byte) ([]byte, error)
}

// DestinationGuard suppresses repeated work for a destination within a window
type DestinationGuard interface {
	// TryAcquire returns false when the destination was served recently
	TryAcquire(ctx context.Context, destinationID int64) (bool, error)
}

// GroupFetcher resolves the guilds an access token can see
type GroupFetcher interface {
	FetchGroupIDs(ctx context.Context, accessToken string) ([]int64, error)
}

// PuzzleService defines the interface for the daily puzzle
type PuzzleService interface {
	// GetOrCreateTodayPuzzle returns today's puzzle, creating it on first request
	GetOrCreateTodayPuzzle(ctx context.Context) (*models.DailyPuzzle, error)

	// GetBySequenceID retrieves a puzzle, ErrNotFound if it does not exist
	GetBySequenceID(ctx context.Context, sequenceID int64) (*models.DailyPuzzle, error)

	// Today returns the current calendar day in the reference timezone
	Today() time.Time
}

// GameService defines the interface for game submission
type GameService interface {
	// SubmitGame records a completed game and updates the player's stats
	SubmitGame(ctx context.Context, submission GameSubmission) (*models.PlayerStats, error)

	// GetTodayGame returns the player's game for today's puzzle, nil if not played
	GetTodayGame(ctx context.Context, playerID int64) (*models.GameRecord, error)

	// GetGame returns the player's game for a puzzle, nil if not played
	GetGame(ctx context.Context, playerID, puzzleSequenceID int64) (*models.GameRecord, error)
}

// StatsService defines the interface for player statistics
type StatsService interface {
	// RecordGame applies one completed game to a player's stats inside the
	// caller's transaction
	RecordGame(ctx context.Context, uow UnitOfWork, playerID int64, attempts int, solved bool, day time.Time) (*models.PlayerStats, error)

	// GetOrCreateStats returns a player's stats, creating zeroed stats on first read
	GetOrCreateStats(ctx context.Context, playerID int64) (*models.PlayerStats, error)

	// TopPlayers returns the ranked leaderboard
	TopPlayers(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// NotificationService defines the interface for result fanout
type NotificationService interface {
	// Enqueue queues a player's game result for delivery, reusing an
	// active notification for the same game
	Enqueue(ctx context.Context, playerID, puzzleSequenceID int64) (*models.PendingNotification, error)

	// PendingForGroups aggregates pending results for the given groups
	PendingForGroups(ctx context.Context, groupIDs []int64) ([]*models.GroupedNotification, error)

	// PendingForAllGroups aggregates pending results for every deliverable group
	PendingForAllGroups(ctx context.Context) ([]*models.GroupedNotification, error)

	// MarkProcessed flags notifications as consumed, idempotently
	MarkProcessed(ctx context.Context, ids []int64) (int64, error)

	// ReapExpired deletes expired notifications
	ReapExpired(ctx context.Context) (int64, error)

	// PendingAuthors lists the players with results awaiting delivery
	PendingAuthors(ctx context.Context) ([]int64, error)

	// HandleGameCompleted enqueues the result of a committed game
	HandleGameCompleted(ctx context.Context, event events.Event)
}

// PlayerService defines the interface for authenticated players
type PlayerService interface {
	// Login upserts the player returned by the OAuth flow
	Login(ctx context.Context, player *models.Player) (*models.Player, error)

	// GetPlayer retrieves a player, ErrNotFound if unknown
	GetPlayer(ctx context.Context, discordID int64) (*models.Player, error)

	// EnsureGroups refreshes the player's groups when stale. A failed fetch
	// yields zero groups for this call and is not returned as an error.
	EnsureGroups(ctx context.Context, player *models.Player) []int64
}

// DestinationService defines the interface for destination settings
type DestinationService interface {
	// Register records the bot joining a guild
	Register(ctx context.Context, groupID int64, name string, channelID *int64) (*models.Destination, error)

	// Deactivate records the bot leaving a guild
	Deactivate(ctx context.Context, groupID int64) error

	// SetResultChannel sets the channel results are posted to
	SetResultChannel(ctx context.Context, groupID int64, channelID *int64) (*models.Destination, error)

	// SetAutoNotify toggles automatic result posting
	SetAutoNotify(ctx context.Context, groupID int64, enabled bool) (*models.Destination, error)

	// Get retrieves a destination, ErrNotFound if unknown
	Get(ctx context.Context, groupID int64) (*models.Destination, error)

	// ListActive returns the destinations the bot is still in
	ListActive(ctx context.Context) ([]*models.Destination, error)

	// AddMembers records players as members of an active destination
	AddMembers(ctx context.Context, groupID int64, discordIDs []int64) (int64, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes queued events
	Commit() error

	// Rollback rolls back the transaction and discards queued events
	Rollback() error

	// Repository getters
	PlayerRepository() PlayerRepository
	DailyPuzzleRepository() DailyPuzzleRepository
	GameRecordRepository() GameRecordRepository
	PlayerStatsRepository() PlayerStatsRepository
	PendingNotificationRepository() PendingNotificationRepository
	DestinationRepository() DestinationRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
