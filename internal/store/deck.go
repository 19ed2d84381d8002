package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create inserts a new deck.
	// Returns ErrDeckExists if the owner already has a deck with the same
	// NameKey and Language; the existing row is left untouched.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByKey retrieves the owner's deck by normalized name and language code.
	// Returns ErrDeckNotFound if no such deck exists.
	GetByKey(ctx context.Context, ownerID, nameKey, language string) (*domain.Deck, error)

	// GetByID retrieves a deck by ID, scoped to its owner.
	// Returns ErrDeckNotFound if the deck does not exist or belongs to someone else.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Deck, error)

	// ListSummaries returns all of the owner's decks, newest first, with their
	// flashcard count and the number of flashcards due at now.
	ListSummaries(ctx context.Context, ownerID string, now time.Time) ([]domain.DeckSummary, error)

	// WithTx returns a new DeckStore instance that uses the provided transaction.
	WithTx(tx DBTX) DeckStore
}
