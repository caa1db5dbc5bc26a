package api

import (
	"context"
	"time"

	"wordler/events"
	"wordler/models"
	"wordler/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

type mockPuzzleService struct{ mock.Mock }

func (m *mockPuzzleService) GetOrCreateTodayPuzzle(ctx context.Context) (*models.DailyPuzzle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPuzzle), args.Error(1)
}

func (m *mockPuzzleService) GetBySequenceID(ctx context.Context, sequenceID int64) (*models.DailyPuzzle, error) {
	args := m.Called(ctx, sequenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyPuzzle), args.Error(1)
}

func (m *mockPuzzleService) Today() time.Time {
	return m.Called().Get(0).(time.Time)
}

type mockGameService struct{ mock.Mock }

func (m *mockGameService) SubmitGame(ctx context.Context, submission service.GameSubmission) (*models.PlayerStats, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *mockGameService) GetTodayGame(ctx context.Context, playerID int64) (*models.GameRecord, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameRecord), args.Error(1)
}

func (m *mockGameService) GetGame(ctx context.Context, playerID, puzzleSequenceID int64) (*models.GameRecord, error) {
	args := m.Called(ctx, playerID, puzzleSequenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameRecord), args.Error(1)
}

type mockStatsService struct{ mock.Mock }

func (m *mockStatsService) RecordGame(ctx context.Context, uow service.UnitOfWork, playerID int64, attempts int, solved bool, day time.Time) (*models.PlayerStats, error) {
	args := m.Called(ctx, uow, playerID, attempts, solved, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *mockStatsService) GetOrCreateStats(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *mockStatsService) TopPlayers(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) Enqueue(ctx context.Context, playerID, puzzleSequenceID int64) (*models.PendingNotification, error) {
	args := m.Called(ctx, playerID, puzzleSequenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingNotification), args.Error(1)
}

func (m *mockNotificationService) PendingForGroups(ctx context.Context, groupIDs []int64) ([]*models.GroupedNotification, error) {
	args := m.Called(ctx, groupIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GroupedNotification), args.Error(1)
}

func (m *mockNotificationService) PendingForAllGroups(ctx context.Context) ([]*models.GroupedNotification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GroupedNotification), args.Error(1)
}

func (m *mockNotificationService) MarkProcessed(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) ReapExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) PendingAuthors(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockNotificationService) HandleGameCompleted(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}

type mockPlayerService struct{ mock.Mock }

func (m *mockPlayerService) Login(ctx context.Context, player *models.Player) (*models.Player, error) {
	args := m.Called(ctx, player)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *mockPlayerService) GetPlayer(ctx context.Context, discordID int64) (*models.Player, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *mockPlayerService) EnsureGroups(ctx context.Context, player *models.Player) []int64 {
	args := m.Called(ctx, player)
	return args.Get(0).([]int64)
}

type mockDestinationService struct{ mock.Mock }

func (m *mockDestinationService) Register(ctx context.Context, groupID int64, name string, channelID *int64) (*models.Destination, error) {
	args := m.Called(ctx, groupID, name, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Destination), args.Error(1)
}

func (m *mockDestinationService) Deactivate(ctx context.Context, groupID int64) error {
	return m.Called(ctx, groupID).Error(0)
}

func (m *mockDestinationService) SetResultChannel(ctx context.Context, groupID int64, channelID *int64) (*models.Destination, error) {
	args := m.Called(ctx, groupID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Destination), args.Error(1)
}

func (m *mockDestinationService) SetAutoNotify(ctx context.Context, groupID int64, enabled bool) (*models.Destination, error) {
	args := m.Called(ctx, groupID, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Destination), args.Error(1)
}

func (m *mockDestinationService) Get(ctx context.Context, groupID int64) (*models.Destination, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Destination), args.Error(1)
}

func (m *mockDestinationService) ListActive(ctx context.Context) ([]*models.Destination, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Destination), args.Error(1)
}

func (m *mockDestinationService) AddMembers(ctx context.Context, groupID int64, discordIDs []int64) (int64, error) {
	args := m.Called(ctx, groupID, discordIDs)
	return args.Get(0).(int64), args.Error(1)
}

type mockIdentity struct{ mock.Mock }

func (m *mockIdentity) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *mockIdentity) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *mockIdentity) FetchUser(ctx context.Context, accessToken string) (*discordgo.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.User), args.Error(1)
}
