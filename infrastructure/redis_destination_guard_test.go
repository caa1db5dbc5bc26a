package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
			Labels: map[string]string{
				"wordler.test": "true",
			},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisDestinationGuard(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	t.Run("suppresses within window", func(t *testing.T) {
		guard := NewRedisDestinationGuard(client, time.Minute, "suppress")

		ok, err := guard.TryAcquire(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = guard.TryAcquire(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = guard.TryAcquire(ctx, 2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("shared between instances", func(t *testing.T) {
		first := NewRedisDestinationGuard(client, time.Minute, "shared")
		second := NewRedisDestinationGuard(client, time.Minute, "shared")

		ok, err := first.TryAcquire(ctx, 5)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = second.TryAcquire(ctx, 5)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("window expires", func(t *testing.T) {
		guard := NewRedisDestinationGuard(client, 100*time.Millisecond, "expiry")

		ok, err := guard.TryAcquire(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.Eventually(t, func() bool {
			ok, err := guard.TryAcquire(ctx, 1)
			return err == nil && ok
		}, 3*time.Second, 50*time.Millisecond)
	})

	t.Run("zero window disables", func(t *testing.T) {
		guard := NewRedisDestinationGuard(client, 0, "disabled")
		for i := 0; i < 2; i++ {
			ok, err := guard.TryAcquire(ctx, 1)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})
}
