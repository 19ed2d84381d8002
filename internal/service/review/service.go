// Package review records recall grades against the spaced-repetition schedule
// and answers which flashcards are due for study.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Service grades flashcards and lists the due set.
type Service interface {
	// Grade records a recall grade for one of the owner's flashcards and
	// returns the rescheduled review.
	//
	// When the flashcard has no review for this owner yet, one is created from
	// the first-grade prior (interval 1, repetitions 0, ease 2.5) and the grade
	// is applied to it. The read, create and update run in one transaction with
	// the review row locked.
	//
	// Returns:
	//   - (*domain.Review, nil): the review after scheduling
	//   - (nil, error wrapping domain.ErrValidation): quality outside [0,5] or no owner
	//   - (nil, ErrFlashcardNotFound): the flashcard does not exist or belongs to another owner
	//   - (nil, *ServiceError): the store failed
	Grade(ctx context.Context, ownerID string, flashcardID uuid.UUID, quality int) (*domain.Review, error)

	// Due returns the owner's flashcards that have no review yet or whose review
	// is scheduled at or before now, optionally restricted to one deck. Each
	// entry carries the owner's review, or nil.
	//
	// Returns ErrDeckNotFound when deckID does not name one of the owner's decks.
	Due(ctx context.Context, ownerID string, deckID *uuid.UUID) ([]domain.DueFlashcard, error)
}

var (
	// ErrFlashcardNotFound indicates the flashcard does not exist or is not
	// owned by the caller.
	ErrFlashcardNotFound = errors.New("flashcard not found")

	// ErrDeckNotFound indicates the deck filter does not name one of the
	// caller's decks.
	ErrDeckNotFound = errors.New("deck not found")
)

// ServiceError wraps errors from the review service with the failing operation.
type ServiceError struct {
	// Operation is the operation that failed ("grade" or "due")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewGradeError returns a new ServiceError for the grade operation.
func NewGradeError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "grade", Message: message, Err: err}
}

// NewDueError returns a new ServiceError for the due operation.
func NewDueError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "due", Message: message, Err: err}
}
