package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dinks/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const subjectPrefix = "economy."

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps every forwarded event
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// SubjectFor maps an event type to its NATS subject
func SubjectFor(eventType events.EventType) string {
	return subjectPrefix + string(eventType)
}

// EventSubjects lists the subject of every event type
func EventSubjects() []string {
	types := events.AllEventTypes()
	subjects := make([]string, 0, len(types))
	for _, t := range types {
		subjects = append(subjects, SubjectFor(t))
	}
	return subjects
}

// EventForwarder copies committed events from the in-process bus to NATS
type EventForwarder struct {
	publisher MessagePublisher
	source    string
	now       func() time.Time
	onForward func(eventType events.EventType, err error)
}

// NewEventForwarder creates a forwarder that publishes through publisher
func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		source:    "dinks",
		now:       time.Now,
	}
}

// OnForward registers a callback run after every publish attempt
func (f *EventForwarder) OnForward(fn func(eventType events.EventType, err error)) {
	f.onForward = fn
}

// Attach subscribes the forwarder to every event type on the bus
func (f *EventForwarder) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := f.Forward(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to forward event to NATS")
		}
	})
	log.WithField("eventTypes", len(events.AllEventTypes())).Info("Event forwarder attached to bus")
}

// Forward publishes one event inside a JSON envelope
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	err := f.forward(ctx, event)
	if f.onForward != nil {
		f.onForward(event.Type(), err)
	}
	return err
}

func (f *EventForwarder) forward(ctx context.Context, event events.Event) error {
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
			log.WithField("subject", subject).Warn("No JetStream stream for subject, event dropped")
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
