package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"wordler/events"
	"wordler/models"
	"wordler/repository/testutil"
	"wordler/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_EventsFollowCommit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var mu sync.Mutex
	var received []events.Event
	bus.Subscribe(events.EventTypePuzzleCreated, func(_ context.Context, e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	t.Run("rollback discards", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.DailyPuzzleRepository().Create(ctx, testutil.CreateTestPuzzle(1, "ABORD", testutil.Day(2024, 6, 1))))
		uow.EventBus().Publish(events.PuzzleCreatedEvent{SequenceID: 1})
		require.NoError(t, uow.Rollback())

		bus.Wait()
		mu.Lock()
		assert.Empty(t, received)
		mu.Unlock()

		puzzle, err := NewDailyPuzzleRepository(testDB.DB).GetBySequenceID(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, puzzle)
	})

	t.Run("commit flushes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()
		require.NoError(t, uow.DailyPuzzleRepository().Create(ctx, testutil.CreateTestPuzzle(1, "ABORD", testutil.Day(2024, 6, 1))))
		uow.EventBus().Publish(events.PuzzleCreatedEvent{SequenceID: 1})
		require.NoError(t, uow.Commit())

		bus.Wait()
		mu.Lock()
		defer mu.Unlock()
		assert.Len(t, received, 1)
	})
}

func TestUnitOfWork_GameSubmissionIsAtomic(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	clock := service.Clock{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC) },
	}
	games := service.NewGameService(factory, service.NewStatsService(factory, 0), clock, nil)
	stats := service.NewStatsService(factory, 5)

	require.NoError(t, NewPlayerRepository(testDB.DB).Upsert(ctx, testutil.CreateTestPlayer(1, "alice")))
	puzzles := NewDailyPuzzleRepository(testDB.DB)
	require.NoError(t, puzzles.Create(ctx, testutil.CreateTestPuzzle(1, "ABORD", testutil.Day(2024, 6, 1))))
	require.NoError(t, puzzles.Create(ctx, testutil.CreateTestPuzzle(2, "ACIER", testutil.Day(2024, 6, 2))))

	for seq := int64(1); seq <= 2; seq++ {
		_, err := games.SubmitGame(ctx, service.GameSubmission{PlayerID: 1, PuzzleSequenceID: seq, Attempts: 3, Solved: true})
		require.NoError(t, err)
	}

	// A replay of day two conflicts and leaves the stats alone
	_, err := games.SubmitGame(ctx, service.GameSubmission{PlayerID: 1, PuzzleSequenceID: 2, Attempts: 1, Solved: true})
	assert.ErrorIs(t, err, service.ErrConflict)

	current, err := stats.GetOrCreateStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, current.TotalGames)
	assert.Equal(t, 2, current.CurrentStreak)
	assert.Equal(t, [models.MaxAttempts]int{0, 0, 2, 0, 0, 0}, current.GuessDistribution)
}
