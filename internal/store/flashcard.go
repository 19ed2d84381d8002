package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// ExistsByFingerprint reports whether the owner already has a flashcard in
	// the language whose normalized front text equals frontKey, in any deck.
	ExistsByFingerprint(ctx context.Context, ownerID, language, frontKey string) (bool, error)

	// Create inserts a new flashcard.
	// Returns ErrFlashcardExists if a flashcard with the same fingerprint was
	// written first; nothing is inserted in that case.
	//
	// Ingestion creates the flashcard and its initial review together; run it
	// with WithTx inside a TxRunner so both rows commit or neither does.
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetOwned retrieves a flashcard by ID, scoped to its owner.
	// Returns ErrFlashcardNotFound if the flashcard does not exist or belongs
	// to someone else.
	GetOwned(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Flashcard, error)

	// CountByOwnerLanguage returns how many flashcards the owner has in the language.
	CountByOwnerLanguage(ctx context.Context, ownerID, language string) (int, error)

	// WithTx returns a new FlashcardStore instance that uses the provided transaction.
	WithTx(tx DBTX) FlashcardStore
}
