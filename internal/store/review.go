package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// ReviewStore defines the interface for review persistence and the due query.
type ReviewStore interface {
	// Create inserts a review.
	// Returns ErrReviewExists if a review for the same (flashcard, owner)
	// already exists; the existing row is left untouched.
	Create(ctx context.Context, review *domain.Review) error

	// GetForUpdate retrieves the review for (flashcardID, ownerID) and locks the
	// row until the surrounding transaction ends.
	// Returns ErrReviewNotFound if there is none.
	GetForUpdate(ctx context.Context, flashcardID uuid.UUID, ownerID string) (*domain.Review, error)

	// Update overwrites the scheduling fields of an existing review.
	// Returns ErrReviewNotFound if the review does not exist.
	Update(ctx context.Context, review *domain.Review) error

	// ListDue returns the owner's flashcards, optionally restricted to one deck,
	// that either have no review at all or whose owner review is scheduled at
	// or before now. Each result carries the owner's review when one exists.
	// Results are ordered by next review time, unreviewed cards first.
	ListDue(ctx context.Context, ownerID string, deckID *uuid.UUID, now time.Time) ([]domain.DueFlashcard, error)

	// WithTx returns a new ReviewStore instance that uses the provided transaction.
	WithTx(tx DBTX) ReviewStore
}
