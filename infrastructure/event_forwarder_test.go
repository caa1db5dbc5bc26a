package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"wordler/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func TestEventForwarder_Forward(t *testing.T) {
	publisher := &recordingPublisher{}
	forwarder := NewEventForwarder(publisher, "wordler")
	forwarder.now = func() time.Time { return time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC) }

	err := forwarder.Forward(context.Background(), events.GameCompletedEvent{
		PlayerID:         42,
		PuzzleSequenceID: 7,
		AttemptsUsed:     3,
		Solved:           true,
	})
	require.NoError(t, err)
	require.Len(t, publisher.messages, 1)

	msg := publisher.messages[0]
	assert.Equal(t, "wordler.game_completed", msg.subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.data, &envelope))
	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, "game_completed", envelope.EventType)
	assert.Equal(t, "wordler", envelope.SourceService)
	assert.True(t, envelope.Timestamp.Equal(time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)))

	var payload events.GameCompletedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, int64(42), payload.PlayerID)
	assert.Equal(t, int64(7), payload.PuzzleSequenceID)
}

func TestEventForwarder_PuzzleEventHidesWord(t *testing.T) {
	publisher := &recordingPublisher{}
	forwarder := NewEventForwarder(publisher, "wordler")

	require.NoError(t, forwarder.Forward(context.Background(), events.PuzzleCreatedEvent{SequenceID: 3}))
	require.Len(t, publisher.messages, 1)
	assert.NotContains(t, string(publisher.messages[0].data), "word\"")
}

func TestEventForwarder_Errors(t *testing.T) {
	t.Run("missing stream is ignored", func(t *testing.T) {
		forwarder := NewEventForwarder(&recordingPublisher{err: errors.New("nats: no response from stream")}, "wordler")
		assert.NoError(t, forwarder.Forward(context.Background(), events.PuzzleCreatedEvent{SequenceID: 1}))
	})

	t.Run("other errors are returned", func(t *testing.T) {
		forwarder := NewEventForwarder(&recordingPublisher{err: errors.New("connection closed")}, "wordler")
		err := forwarder.Forward(context.Background(), events.PuzzleCreatedEvent{SequenceID: 1})
		assert.ErrorContains(t, err, "connection closed")
	})
}

func TestEventForwarder_RegisterForwardsEveryType(t *testing.T) {
	publisher := &recordingPublisher{}
	bus := events.NewBus()
	NewEventForwarder(publisher, "wordler").Register(bus)

	ctx := context.Background()
	bus.Emit(ctx, events.GameCompletedEvent{PlayerID: 1})
	bus.Emit(ctx, events.PuzzleCreatedEvent{SequenceID: 1})
	bus.Emit(ctx, events.NotificationsProcessedEvent{NotificationIDs: []int64{1}, Updated: 1})
	bus.Wait()

	subjects := make([]string, 0, len(publisher.messages))
	for _, m := range publisher.messages {
		subjects = append(subjects, m.subject)
	}
	assert.ElementsMatch(t, AllSubjects(), subjects)
}
