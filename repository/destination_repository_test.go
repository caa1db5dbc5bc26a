package repository

import (
	"context"
	"testing"
	"time"

	"wordler/repository/testutil"
	"wordler/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDestinationRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestDestination(10, 110)))
	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestDestination(20, 120)))

	noChannel := testutil.CreateTestDestination(30, 0)
	noChannel.ResultChannelID = nil
	require.NoError(t, repo.Upsert(ctx, noChannel))

	muted := testutil.CreateTestDestination(40, 140)
	muted.AutoNotify = false
	require.NoError(t, repo.Upsert(ctx, muted))

	t.Run("list all deliverable", func(t *testing.T) {
		dests, err := repo.ListDeliverable(ctx, nil)
		require.NoError(t, err)
		require.Len(t, dests, 2)
		assert.Equal(t, int64(10), dests[0].GroupID)
		assert.Equal(t, int64(110), *dests[0].ResultChannelID)
		assert.Equal(t, int64(20), dests[1].GroupID)
	})

	t.Run("list restricted to groups", func(t *testing.T) {
		dests, err := repo.ListDeliverable(ctx, []int64{20, 30, 40})
		require.NoError(t, err)
		require.Len(t, dests, 1)
		assert.Equal(t, int64(20), dests[0].GroupID)

		dests, err = repo.ListDeliverable(ctx, []int64{})
		require.NoError(t, err)
		assert.Empty(t, dests)
	})

	t.Run("list active includes undeliverable", func(t *testing.T) {
		dests, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, dests, 4)
		assert.Nil(t, dests[2].ResultChannelID)
		assert.False(t, dests[3].AutoNotify)
	})

	t.Run("deactivate", func(t *testing.T) {
		require.NoError(t, repo.Deactivate(ctx, 10, time.Now()))

		dest, err := repo.Get(ctx, 10)
		require.NoError(t, err)
		assert.False(t, dest.IsActive)
		assert.NotNil(t, dest.LeftAt)

		dests, err := repo.ListDeliverable(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, dests, 1)

		dests, err = repo.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, dests, 3)

		assert.ErrorIs(t, repo.Deactivate(ctx, 999, time.Now()), service.ErrNotFound)
	})
}
