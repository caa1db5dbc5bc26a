package repository

import (
	"context"
	"testing"

	"wordler/repository/testutil"
	"wordler/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRecordRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	players := NewPlayerRepository(testDB.DB)
	puzzles := NewDailyPuzzleRepository(testDB.DB)
	repo := NewGameRecordRepository(testDB.DB)

	require.NoError(t, players.Upsert(ctx, testutil.CreateTestPlayer(100, "alice")))
	puzzle := testutil.CreateTestPuzzle(1, "ACIER", testutil.Day(2024, 6, 1))
	require.NoError(t, puzzles.Create(ctx, puzzle))

	t.Run("not played", func(t *testing.T) {
		record, err := repo.Get(ctx, 100, 1)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("create and get", func(t *testing.T) {
		record := testutil.CreateTestGameRecord(100, puzzle, 2)
		require.NoError(t, repo.Create(ctx, record))
		assert.NotZero(t, record.ID)

		stored, err := repo.Get(ctx, 100, 1)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, record.ID, stored.ID)
		assert.Equal(t, 2, stored.AttemptsUsed)
		assert.True(t, stored.Solved)
		assert.Equal(t, []string{"ABORD", "ACIER"}, stored.Guesses)
		require.NotNil(t, stored.CompletionDurationMs)
		assert.Equal(t, int64(61000), *stored.CompletionDurationMs)
	})

	t.Run("second game for the same puzzle conflicts", func(t *testing.T) {
		err := repo.Create(ctx, testutil.CreateTestGameRecord(100, puzzle, 4))
		assert.ErrorIs(t, err, service.ErrConflict)
	})
}
