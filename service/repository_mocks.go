package service

import (
	"context"
	"time"

	"wordler/events"
	"wordler/models"

	"github.com/stretchr/testify/mock"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Player, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByDiscordIDs(ctx context.Context, discordIDs []int64) ([]*models.Player, error) {
	args := m.Called(ctx, discordIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Upsert(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) UpdateGroups(ctx context.Context, discordID int64, groupIDs []int64, syncedAt time.Time) error {
	args := m.Called(ctx, discordID, groupIDs, syncedAt)
	return args.Error(0)
}

func (m *MockPlayerRepository) AddGroupMember(ctx context.Context, groupID int64, discordIDs []int64) (int64, error) {
	args := m.Called(ctx, groupID, discordIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockDailyPuzzleRepository is a mock implementation of DailyPuzzleRepository
type MockDailyPuzzleRepository struct {
	mock.Mock
}

func (m *MockDailyPuzzleRepository) GetByDay(ctx context.Context, day time.Time) (*models.DailyPuzzle, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPuzzle), args.Error(1)
}

func (m *MockDailyPuzzleRepository) GetBySequenceID(ctx context.Context, sequenceID int64) (*models.DailyPuzzle, error) {
	args := m.Called(ctx, sequenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPuzzle), args.Error(1)
}

func (m *MockDailyPuzzleRepository) GetMaxSequenceID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDailyPuzzleRepository) GetWordsBetween(ctx context.Context, from, to time.Time) ([]string, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDailyPuzzleRepository) Create(ctx context.Context, puzzle *models.DailyPuzzle) error {
	args := m.Called(ctx, puzzle)
	return args.Error(0)
}

// MockGameRecordRepository is a mock implementation of GameRecordRepository
type MockGameRecordRepository struct {
	mock.Mock
}

func (m *MockGameRecordRepository) Create(ctx context.Context, record *models.GameRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockGameRecordRepository) Get(ctx context.Context, playerID, puzzleSequenceID int64) (*models.GameRecord, error) {
	args := m.Called(ctx, playerID, puzzleSequenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameRecord), args.Error(1)
}

// MockPlayerStatsRepository is a mock implementation of PlayerStatsRepository
type MockPlayerStatsRepository struct {
	mock.Mock
}

func (m *MockPlayerStatsRepository) Get(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *MockPlayerStatsRepository) GetForUpdate(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *MockPlayerStatsRepository) Create(ctx context.Context, stats *models.PlayerStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockPlayerStatsRepository) Update(ctx context.Context, stats *models.PlayerStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockPlayerStatsRepository) ListWithMinGames(ctx context.Context, minGames int) ([]*models.PlayerStats, error) {
	args := m.Called(ctx, minGames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlayerStats), args.Error(1)
}

// MockPendingNotificationRepository is a mock implementation of PendingNotificationRepository
type MockPendingNotificationRepository struct {
	mock.Mock
}

func (m *MockPendingNotificationRepository) Create(ctx context.Context, notification *models.PendingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockPendingNotificationRepository) ListActive(ctx context.Context, now time.Time) ([]*models.PendingNotification, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingNotification), args.Error(1)
}

func (m *MockPendingNotificationRepository) GetActive(ctx context.Context, playerID, puzzleSequenceID int64, now time.Time) (*models.PendingNotification, error) {
	args := m.Called(ctx, playerID, puzzleSequenceID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingNotification), args.Error(1)
}

func (m *MockPendingNotificationRepository) MarkProcessed(ctx context.Context, ids []int64, at time.Time) (int64, error) {
	args := m.Called(ctx, ids, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPendingNotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPendingNotificationRepository) DistinctPendingAuthors(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockDestinationRepository is a mock implementation of DestinationRepository
type MockDestinationRepository struct {
	mock.Mock
}

func (m *MockDestinationRepository) Get(ctx context.Context, groupID int64) (*models.Destination, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Destination), args.Error(1)
}

func (m *MockDestinationRepository) Upsert(ctx context.Context, destination *models.Destination) error {
	args := m.Called(ctx, destination)
	return args.Error(0)
}

func (m *MockDestinationRepository) Deactivate(ctx context.Context, groupID int64, at time.Time) error {
	args := m.Called(ctx, groupID, at)
	return args.Error(0)
}

func (m *MockDestinationRepository) ListDeliverable(ctx context.Context, groupIDs []int64) ([]*models.Destination, error) {
	args := m.Called(ctx, groupIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Destination), args.Error(1)
}

func (m *MockDestinationRepository) ListActive(ctx context.Context) ([]*models.Destination, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Destination), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockGridRenderer is a mock implementation of GridRenderer
type MockGridRenderer struct {
	mock.Mock
}

func (m *MockGridRenderer) RenderGrid(grid models.GuessGrid, authorName, avatarRef string) ([]byte, error) {
	args := m.Called(grid, authorName, avatarRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockImageComposer is a mock implementation of ImageComposer
type MockImageComposer struct {
	mock.Mock
}

func (m *MockImageComposer) Compose(images [][]byte) ([]byte, error) {
	args := m.Called(images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockDestinationGuard is a mock implementation of DestinationGuard
type MockDestinationGuard struct {
	mock.Mock
}

func (m *MockDestinationGuard) TryAcquire(ctx context.Context, destinationID int64) (bool, error) {
	args := m.Called(ctx, destinationID)
	return args.Bool(0), args.Error(1)
}

// MockGroupFetcher is a mock implementation of GroupFetcher
type MockGroupFetcher struct {
	mock.Mock
}

func (m *MockGroupFetcher) FetchGroupIDs(ctx context.Context, accessToken string) ([]int64, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever SetRepositories installed.
type MockUnitOfWork struct {
	mock.Mock

	playerRepo       PlayerRepository
	puzzleRepo       DailyPuzzleRepository
	gameRepo         GameRecordRepository
	statsRepo        PlayerStatsRepository
	notificationRepo PendingNotificationRepository
	destinationRepo  DestinationRepository
	eventBus         EventPublisher
}

// SetRepositories installs repositories by type. An EventPublisher may be
// passed too; otherwise EventBus returns a publisher that accepts anything.
func (m *MockUnitOfWork) SetRepositories(repos ...any) {
	for _, repo := range repos {
		switch r := repo.(type) {
		case PlayerRepository:
			m.playerRepo = r
		case DailyPuzzleRepository:
			m.puzzleRepo = r
		case GameRecordRepository:
			m.gameRepo = r
		case PlayerStatsRepository:
			m.statsRepo = r
		case PendingNotificationRepository:
			m.notificationRepo = r
		case DestinationRepository:
			m.destinationRepo = r
		case EventPublisher:
			m.eventBus = r
		}
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) PlayerRepository() PlayerRepository {
	return m.playerRepo
}

func (m *MockUnitOfWork) DailyPuzzleRepository() DailyPuzzleRepository {
	return m.puzzleRepo
}

func (m *MockUnitOfWork) GameRecordRepository() GameRecordRepository {
	return m.gameRepo
}

func (m *MockUnitOfWork) PlayerStatsRepository() PlayerStatsRepository {
	return m.statsRepo
}

func (m *MockUnitOfWork) PendingNotificationRepository() PendingNotificationRepository {
	return m.notificationRepo
}

func (m *MockUnitOfWork) DestinationRepository() DestinationRepository {
	return m.destinationRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return discardPublisher{}
	}
	return m.eventBus
}

type discardPublisher struct{}

func (discardPublisher) Publish(events.Event) {}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
