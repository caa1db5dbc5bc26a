package service

import (
	"context"
	"testing"
	"time"

	"wordler/events"
	"wordler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGameService_SubmitGame_ExtendsStreak(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPlayerRepo := new(MockPlayerRepository)
	mockPuzzleRepo := new(MockDailyPuzzleRepository)
	mockGameRepo := new(MockGameRecordRepository)
	mockStatsRepo := new(MockPlayerStatsRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW.SetRepositories(mockPlayerRepo, mockPuzzleRepo, mockGameRepo, mockStatsRepo, mockPublisher)

	service := NewGameService(mockFactory, NewStatsService(mockFactory, 0), fixedClock(2024, 6, 10), nil)

	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	puzzle := &models.DailyPuzzle{SequenceID: 12, Word: "ACIER", CalendarDay: today}
	stats := &models.PlayerStats{
		PlayerID:      555,
		TotalGames:    4,
		TotalWins:     4,
		CurrentStreak: 2,
		MaxStreak:     2,
		LastPlayedDay: &yesterday,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPuzzleRepo.On("GetBySequenceID", ctx, int64(12)).Return(puzzle, nil)
	mockPlayerRepo.On("GetByDiscordID", ctx, int64(555)).Return(&models.Player{DiscordID: 555, Username: "alice"}, nil)
	mockGameRepo.On("Get", ctx, int64(555), int64(12)).Return(nil, nil)
	mockGameRepo.On("Create", ctx, mock.MatchedBy(func(r *models.GameRecord) bool {
		return r.PlayerID == 555 &&
			r.PuzzleSequenceID == 12 &&
			r.AttemptsUsed == 3 &&
			r.Solved &&
			r.CalendarDay.Equal(today) &&
			assert.ObjectsAreEqual([]string{"ABORD", "AIMER", "ACIER"}, r.Guesses)
	})).Return(nil)
	mockStatsRepo.On("GetForUpdate", ctx, int64(555)).Return(stats, nil)
	mockStatsRepo.On("Update", ctx, stats).Return(nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		completed, ok := e.(events.GameCompletedEvent)
		return ok && completed.PlayerID == 555 && completed.CurrentStreak == 3 && completed.Solved
	})).Return()

	duration := int64(95000)
	result, err := service.SubmitGame(ctx, GameSubmission{
		PlayerID:             555,
		PuzzleSequenceID:     12,
		Attempts:             3,
		Guesses:              []string{"abord", "", "aimer", "ACI", "acier"},
		Solved:               true,
		CompletionDurationMs: &duration,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, 3, result.MaxStreak)
	assert.Equal(t, 5, result.TotalGames)
	assert.Equal(t, 1, result.GuessDistribution[2])

	mockGameRepo.AssertExpectations(t)
	mockStatsRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestGameService_SubmitGame_FirstGameCreatesStats(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPlayerRepo := new(MockPlayerRepository)
	mockPuzzleRepo := new(MockDailyPuzzleRepository)
	mockGameRepo := new(MockGameRecordRepository)
	mockStatsRepo := new(MockPlayerStatsRepository)
	mockUoW.SetRepositories(mockPlayerRepo, mockPuzzleRepo, mockGameRepo, mockStatsRepo)

	service := NewGameService(mockFactory, NewStatsService(mockFactory, 0), fixedClock(2024, 6, 10), nil)

	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	puzzle := &models.DailyPuzzle{SequenceID: 12, Word: "ACIER", CalendarDay: today}
	created := models.NewPlayerStats(555)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPuzzleRepo.On("GetBySequenceID", ctx, int64(12)).Return(puzzle, nil)
	mockPlayerRepo.On("GetByDiscordID", ctx, int64(555)).Return(&models.Player{DiscordID: 555}, nil)
	mockGameRepo.On("Get", ctx, int64(555), int64(12)).Return(nil, nil)
	mockGameRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockStatsRepo.On("GetForUpdate", ctx, int64(555)).Return(nil, nil).Once()
	mockStatsRepo.On("Create", ctx, mock.AnythingOfType("*models.PlayerStats")).Return(nil)
	mockStatsRepo.On("GetForUpdate", ctx, int64(555)).Return(created, nil).Once()
	mockStatsRepo.On("Update", ctx, created).Return(nil)

	result, err := service.SubmitGame(ctx, GameSubmission{
		PlayerID:         555,
		PuzzleSequenceID: 12,
		Attempts:         6,
		Solved:           false,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalGames)
	assert.Equal(t, 0, result.TotalWins)
	assert.Equal(t, 0, result.CurrentStreak)
	mockStatsRepo.AssertExpectations(t)
}

func TestGameService_SubmitGame_AlreadyPlayed(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPlayerRepo := new(MockPlayerRepository)
	mockPuzzleRepo := new(MockDailyPuzzleRepository)
	mockGameRepo := new(MockGameRecordRepository)
	mockStatsRepo := new(MockPlayerStatsRepository)
	mockUoW.SetRepositories(mockPlayerRepo, mockPuzzleRepo, mockGameRepo, mockStatsRepo)

	service := NewGameService(mockFactory, NewStatsService(mockFactory, 0), fixedClock(2024, 6, 10), nil)

	puzzle := &models.DailyPuzzle{SequenceID: 12, Word: "ACIER"}
	previous := &models.GameRecord{ID: 1, PlayerID: 555, PuzzleSequenceID: 12, AttemptsUsed: 2, Solved: true}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPuzzleRepo.On("GetBySequenceID", ctx, int64(12)).Return(puzzle, nil)
	mockPlayerRepo.On("GetByDiscordID", ctx, int64(555)).Return(&models.Player{DiscordID: 555}, nil)
	mockGameRepo.On("Get", ctx, int64(555), int64(12)).Return(previous, nil)

	result, err := service.SubmitGame(ctx, GameSubmission{
		PlayerID:         555,
		PuzzleSequenceID: 12,
		Attempts:         4,
		Solved:           true,
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Nil(t, result)

	// Stats stay exactly as they were
	mockGameRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockStatsRepo.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	mockStatsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestGameService_SubmitGame_Validation(t *testing.T) {
	tests := []struct {
		name       string
		submission GameSubmission
	}{
		{"attempts above six", GameSubmission{PlayerID: 1, PuzzleSequenceID: 1, Attempts: 7, Solved: true}},
		{"negative attempts", GameSubmission{PlayerID: 1, PuzzleSequenceID: 1, Attempts: -1}},
		{"solved without attempts", GameSubmission{PlayerID: 1, PuzzleSequenceID: 1, Attempts: 0, Solved: true}},
		{"missing word id", GameSubmission{PlayerID: 1, Attempts: 3, Solved: true}},
		{"missing player", GameSubmission{PuzzleSequenceID: 1, Attempts: 3, Solved: true}},
		{"negative duration", GameSubmission{PlayerID: 1, PuzzleSequenceID: 1, Attempts: 3, Solved: true, CompletionDurationMs: ptr(int64(-5))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFactory := new(MockUnitOfWorkFactory)
			service := NewGameService(mockFactory, NewStatsService(mockFactory, 0), fixedClock(2024, 6, 10), nil)

			_, err := service.SubmitGame(context.Background(), tt.submission)

			assert.ErrorIs(t, err, ErrValidation)
			mockFactory.AssertNotCalled(t, "Create")
		})
	}
}

func TestGameService_SubmitGame_UnknownPuzzle(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPuzzleRepo := new(MockDailyPuzzleRepository)
	mockUoW.SetRepositories(mockPuzzleRepo)

	service := NewGameService(mockFactory, NewStatsService(mockFactory, 0), fixedClock(2024, 6, 10), nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockPuzzleRepo.On("GetBySequenceID", ctx, int64(404)).Return(nil, nil)

	_, err := service.SubmitGame(ctx, GameSubmission{PlayerID: 1, PuzzleSequenceID: 404, Attempts: 2, Solved: true})

	assert.ErrorIs(t, err, ErrValidation)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestGameService_SubmitGame_UnknownPlayer(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockPlayerRepo := new(MockPlayerRepository)
	mockPuzzleRepo := new(MockDailyPuzzleRepository)
	mockUoW.SetRepositories(mockPlayerRepo, mockPuzzleRepo)

	service := NewGameService(mockFactory, NewStatsService(mockFactory, 0), fixedClock(2024, 6, 10), nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockPuzzleRepo.On("GetBySequenceID", ctx, int64(3)).Return(&models.DailyPuzzle{SequenceID: 3}, nil)
	mockPlayerRepo.On("GetByDiscordID", ctx, int64(9)).Return(nil, nil)

	_, err := service.SubmitGame(ctx, GameSubmission{PlayerID: 9, PuzzleSequenceID: 3, Attempts: 2, Solved: true})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilterGuesses(t *testing.T) {
	guesses := FilterGuesses([]string{"abord", "", "  ", "ab", "élève", "a1cde", "toolong"})
	assert.Equal(t, []string{"ABORD", "ÉLÈVE"}, guesses)
}

func ptr[T any](v T) *T {
	return &v
}
