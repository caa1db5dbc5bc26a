package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGameCompleted          EventType = "game_completed"
	EventTypePuzzleCreated          EventType = "puzzle_created"
	EventTypeNotificationsProcessed EventType = "notifications_processed"
)

// AllEventTypes lists every event type, for subscribers that forward everything
var AllEventTypes = []EventType{
	EventTypeGameCompleted,
	EventTypePuzzleCreated,
	EventTypeNotificationsProcessed,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GameCompletedEvent is emitted once a game record and its stats update commit
type GameCompletedEvent struct {
	PlayerID         int64     `json:"playerId"`
	PuzzleSequenceID int64     `json:"wordId"`
	CalendarDay      time.Time `json:"date"`
	AttemptsUsed     int       `json:"attempts"`
	Solved           bool      `json:"solved"`
	CurrentStreak    int       `json:"currentStreak"`
}

func (e GameCompletedEvent) Type() EventType {
	return EventTypeGameCompleted
}

// PuzzleCreatedEvent is emitted when the first request of a day creates its puzzle.
// The word itself is left out so forwarded events never leak the answer.
type PuzzleCreatedEvent struct {
	SequenceID  int64     `json:"wordId"`
	CalendarDay time.Time `json:"date"`
}

func (e PuzzleCreatedEvent) Type() EventType {
	return EventTypePuzzleCreated
}

// NotificationsProcessedEvent is emitted after a delivery agent confirms consumption
type NotificationsProcessedEvent struct {
	NotificationIDs []int64 `json:"notificationIds"`
	Updated         int64   `json:"updated"`
}

func (e NotificationsProcessedEvent) Type() EventType {
	return EventTypeNotificationsProcessed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit runs every handler of the event's type in its own goroutine.
// A panicking handler is logged and does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started so far has returned.
// Used on shutdown so in-flight notifications are not cut off.
func (b *Bus) Wait() {
	b.wg.Wait()
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event until commit")
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit. Events are emitted with a
// background context because the request context may already be done.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of events waiting for Flush
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
