package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	mu           sync.Mutex
	HandledCount int
	LastEvent    *Event
	HandlerError error
}

func (m *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HandledCount++
	m.LastEvent = event
	return m.HandlerError
}

func TestInMemoryEventEmitter(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(log)
		event, err := NewEvent(TypeDeckCreated, "user-1", DeckCreated{Name: "Travel"})
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(log)
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event, err := NewEvent(TypeReviewGraded, "user-1", ReviewGraded{Quality: 4})
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(log)
		successHandler := &MockEventHandler{}
		failingHandler := &MockEventHandler{HandlerError: errors.New("handler error")}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		err := Emit(context.Background(), emitter, TypeDeckCreated, "user-1", DeckCreated{})
		assert.EqualError(t, err, "handler error")
		assert.Equal(t, 1, successHandler.HandledCount)
		assert.Equal(t, 1, failingHandler.HandledCount)
	})

	t.Run("nil emitter is a no-op", func(t *testing.T) {
		assert.NoError(t, Emit(context.Background(), nil, TypeDeckCreated, "user-1", DeckCreated{}))
	})
}

func TestEventPayloadRoundTrip(t *testing.T) {
	deckID := uuid.New()
	event, err := NewEvent(TypeVocabularyIngested, "user-1", VocabularyIngested{
		DeckID: deckID, DeckName: "Travel", Language: "en", Created: 3, Skipped: 1,
	})
	require.NoError(t, err)

	var payload VocabularyIngested
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, deckID, payload.DeckID)
	assert.Equal(t, 3, payload.Created)
	assert.Equal(t, "user-1", event.OwnerID)
}

func TestAuditLogHandler(t *testing.T) {
	l, buf := logger.GetTestLogger(t)
	handler := NewAuditLogHandler(l)

	event, err := NewEvent(TypeVocabularyIngested, "user-1", VocabularyIngested{Created: 2})
	require.NoError(t, err)
	require.NoError(t, handler.HandleEvent(context.Background(), event))

	entry := logger.FindEntry(t, buf, "audit event")
	assert.Equal(t, TypeVocabularyIngested, entry["event_type"])
	assert.Equal(t, "user-1", entry["owner_id"])
	payload, ok := entry["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), payload["created"])
}
