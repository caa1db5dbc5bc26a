package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wordler/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const subjectPrefix = "wordler."

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps a forwarded domain event
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// SubjectFor maps an event type to its NATS subject
func SubjectFor(eventType events.EventType) string {
	return subjectPrefix + string(eventType)
}

// AllSubjects returns the subjects of every forwarded event type
func AllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, t := range events.AllEventTypes {
		subjects = append(subjects, SubjectFor(t))
	}
	return subjects
}

// EventForwarder republishes committed domain events to a message bus
type EventForwarder struct {
	publisher MessagePublisher
	source    string
	now       func() time.Time
}

// NewEventForwarder creates a forwarder tagging envelopes with source
func NewEventForwarder(publisher MessagePublisher, source string) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		source:    source,
		now:       time.Now,
	}
}

// Register subscribes the forwarder to every event type on bus
func (f *EventForwarder) Register(bus *events.Bus) {
	for _, t := range events.AllEventTypes {
		bus.Subscribe(t, f.Handle)
	}
}

// Handle is an events.Handler. Forwarding errors are logged only.
func (f *EventForwarder) Handle(ctx context.Context, event events.Event) {
	if err := f.Forward(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to forward event")
	}
}

// Forward publishes event wrapped in an envelope
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     f.now().UTC(),
		SourceService: f.source,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := SubjectFor(event.Type())
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		// No stream bound to the subject yet
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
	return nil
}
