package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// InMemoryEventEmitter is a simple implementation of the EventEmitter interface
// that stores registered handlers in memory and dispatches events to them synchronously.
type InMemoryEventEmitter struct {
	handlers []EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(l *slog.Logger) *InMemoryEventEmitter {
	if l == nil {
		l = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers: make([]EventHandler, 0),
		logger:   l.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))
}

// EmitEvent publishes the given event to all registered handlers.
// If any handler returns an error, the event will still be sent to all other handlers,
// and the first error encountered will be returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	log := logger.FromContextOrDefault(ctx, e.logger)
	log.Debug("emitting event",
		"event_id", event.ID,
		"event_type", event.Type,
		"handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// AuditLogHandler writes every event as one structured log line.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler creates an AuditLogHandler.
func NewAuditLogHandler(l *slog.Logger) *AuditLogHandler {
	if l == nil {
		l = slog.Default()
	}
	return &AuditLogHandler{logger: l.With("component", "audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *Event) error {
	logger.FromContextOrDefault(ctx, h.logger).Info("audit event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("owner_id", event.OwnerID),
		slog.Time("created_at", event.CreatedAt),
		slog.Any("payload", event.Payload))
	return nil
}
