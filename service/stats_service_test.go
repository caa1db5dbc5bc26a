package service

import (
	"context"
	"testing"
	"time"

	"wordler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func statsWith(playerID int64, games, wins, streak int) *models.PlayerStats {
	return &models.PlayerStats{
		PlayerID:      playerID,
		TotalGames:    games,
		TotalWins:     wins,
		CurrentStreak: streak,
		MaxStreak:     streak,
	}
}

func TestRankLeaderboard_MinimumGames(t *testing.T) {
	all := []*models.PlayerStats{
		statsWith(1, 4, 4, 4), // 100% but too few games
		statsWith(2, 5, 4, 2), // 80%
	}
	names := map[int64]string{1: "newcomer", 2: "regular"}

	entries := RankLeaderboard(all, names, 5, 10)

	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].PlayerID)
	assert.Equal(t, 80, entries[0].WinPercentage)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "regular", entries[0].DisplayName)
}

func TestRankLeaderboard_SortOrder(t *testing.T) {
	all := []*models.PlayerStats{
		statsWith(1, 10, 5, 1),  // 50%
		statsWith(2, 10, 9, 3),  // 90%, streak 3
		statsWith(3, 10, 9, 5),  // 90%, streak 5
		statsWith(4, 20, 18, 5), // 90%, streak 5, more games
		statsWith(5, 10, 9, 5),  // ties with 3, higher id
	}

	entries := RankLeaderboard(all, map[int64]string{}, 5, 10)

	var order []int64
	for _, e := range entries {
		order = append(order, e.PlayerID)
	}
	assert.Equal(t, []int64{4, 3, 5, 2, 1}, order)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, models.UnknownPlayerName, e.DisplayName)
	}
}

func TestRankLeaderboard_Limit(t *testing.T) {
	var all []*models.PlayerStats
	for i := int64(1); i <= 150; i++ {
		all = append(all, statsWith(i, 5, 5, 1))
	}

	assert.Len(t, RankLeaderboard(all, nil, 5, 0), DefaultLeaderboardLimit)
	assert.Len(t, RankLeaderboard(all, nil, 5, 3), 3)
	assert.Len(t, RankLeaderboard(all, nil, 5, 1000), MaxLeaderboardLimit)
}

func TestStatsService_TopPlayers(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPlayerRepo := new(MockPlayerRepository)
	mockStatsRepo := new(MockPlayerStatsRepository)
	mockUoW.SetRepositories(mockPlayerRepo, mockStatsRepo)

	service := NewStatsService(mockFactory, 5)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockStatsRepo.On("ListWithMinGames", ctx, 5).Return([]*models.PlayerStats{
		statsWith(10, 6, 3, 0),
		statsWith(20, 8, 8, 8),
	}, nil)
	mockPlayerRepo.On("GetByDiscordIDs", ctx, []int64{10, 20}).Return([]*models.Player{
		{DiscordID: 20, Username: "bob"},
	}, nil)

	entries, err := service.TopPlayers(ctx, 10)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].DisplayName)
	assert.Equal(t, 100, entries[0].WinPercentage)
	assert.Equal(t, models.UnknownPlayerName, entries[1].DisplayName)
}

func TestStatsService_GetOrCreateStats_CreatesOnFirstRead(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPlayerRepo := new(MockPlayerRepository)
	mockStatsRepo := new(MockPlayerStatsRepository)
	mockUoW.SetRepositories(mockPlayerRepo, mockStatsRepo)

	service := NewStatsService(mockFactory, 5)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockStatsRepo.On("Get", ctx, int64(7)).Return(nil, nil)
	mockPlayerRepo.On("GetByDiscordID", ctx, int64(7)).Return(&models.Player{DiscordID: 7}, nil)
	mockStatsRepo.On("Create", ctx, mock.MatchedBy(func(s *models.PlayerStats) bool {
		return s.PlayerID == 7 && s.TotalGames == 0
	})).Return(nil)

	stats, err := service.GetOrCreateStats(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.PlayerID)
	assert.Equal(t, 0, stats.TotalGames)
	assert.Equal(t, 0, stats.WinPercentage())
	mockUoW.AssertExpectations(t)
}

func TestStatsService_GetOrCreateStats_UnknownPlayer(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPlayerRepo := new(MockPlayerRepository)
	mockStatsRepo := new(MockPlayerStatsRepository)
	mockUoW.SetRepositories(mockPlayerRepo, mockStatsRepo)

	service := NewStatsService(mockFactory, 5)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockStatsRepo.On("Get", ctx, int64(7)).Return(nil, nil)
	mockPlayerRepo.On("GetByDiscordID", ctx, int64(7)).Return(nil, nil)

	_, err := service.GetOrCreateStats(ctx, 7)

	assert.ErrorIs(t, err, ErrNotFound)
	mockStatsRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStatsService_RecordGame_RejectsSolvedWithoutAttempts(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockStatsRepo := new(MockPlayerStatsRepository)
	mockUoW.SetRepositories(mockStatsRepo)
	mockStatsRepo.On("GetForUpdate", ctx, int64(7)).Return(statsWith(7, 1, 1, 1), nil)

	service := NewStatsService(new(MockUnitOfWorkFactory), 5)
	_, err := service.RecordGame(ctx, mockUoW, 7, 0, true, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, ErrValidation)
	mockStatsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestStatsService_RecordGame_CreatesMissingStats(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockStatsRepo := new(MockPlayerStatsRepository)
	mockUoW.SetRepositories(mockStatsRepo)

	created := statsWith(7, 0, 0, 0)
	mockStatsRepo.On("GetForUpdate", ctx, int64(7)).Return(nil, nil).Once()
	mockStatsRepo.On("Create", ctx, mock.AnythingOfType("*models.PlayerStats")).Return(nil)
	mockStatsRepo.On("GetForUpdate", ctx, int64(7)).Return(created, nil).Once()
	mockStatsRepo.On("Update", ctx, created).Return(nil)

	service := NewStatsService(mockFactory, 5)
	stats, err := service.RecordGame(ctx, mockUoW, 7, 4, true, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.CurrentStreak)
	mockStatsRepo.AssertExpectations(t)
	mockFactory.AssertNotCalled(t, "Create")
}
