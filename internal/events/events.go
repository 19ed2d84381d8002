package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the services.
const (
	TypeVocabularyIngested = "vocabulary.ingested"
	TypeReviewGraded       = "review.graded"
	TypeDeckCreated        = "deck.created"
)

// Event is a domain event with a JSON payload.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type names what happened, e.g. TypeReviewGraded
	Type string `json:"type"`

	// OwnerID is the user the event concerns
	OwnerID string `json:"owner_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type, owner and payload.
func NewEvent(eventType, ownerID string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		OwnerID:   ownerID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// VocabularyIngested is the payload of TypeVocabularyIngested.
type VocabularyIngested struct {
	DeckID   uuid.UUID `json:"deck_id"`
	DeckName string    `json:"deck_name"`
	Language string    `json:"language"`
	Created  int       `json:"created"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
}

// ReviewGraded is the payload of TypeReviewGraded.
type ReviewGraded struct {
	FlashcardID uuid.UUID `json:"flashcard_id"`
	Quality     int       `json:"quality"`
	Interval    int       `json:"interval"`
	Repetitions int       `json:"repetitions"`
	EaseFactor  float64   `json:"ease_factor"`
	NextReview  time.Time `json:"next_review"`
}

// DeckCreated is the payload of TypeDeckCreated.
type DeckCreated struct {
	DeckID   uuid.UUID `json:"deck_id"`
	Name     string    `json:"name"`
	Language string    `json:"language"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}

// Emit builds an event and publishes it. A nil emitter is a no-op.
func Emit(ctx context.Context, emitter EventEmitter, eventType, ownerID string, payload any) error {
	if emitter == nil {
		return nil
	}
	event, err := NewEvent(eventType, ownerID, payload)
	if err != nil {
		return err
	}
	return emitter.EmitEvent(ctx, event)
}
