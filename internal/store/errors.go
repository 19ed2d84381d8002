package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrDeckNotFound, ErrFlashcardNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second deck with the same topic and language).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist or the update violates constraints.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrDeckNotFound indicates that the requested deck does not exist for the owner.
	ErrDeckNotFound = fmt.Errorf("%w: deck", ErrNotFound)

	// ErrFlashcardNotFound indicates that the requested flashcard does not exist for the owner.
	ErrFlashcardNotFound = fmt.Errorf("%w: flashcard", ErrNotFound)

	// ErrReviewNotFound indicates that no review exists for the flashcard and owner.
	ErrReviewNotFound = fmt.Errorf("%w: review", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrDeckExists indicates that the owner already has a deck with the same
	// normalized name in the same language.
	ErrDeckExists = fmt.Errorf("%w: deck", ErrDuplicate)

	// ErrFlashcardExists indicates that the owner already has a flashcard with
	// the same normalized front text in the same language.
	ErrFlashcardExists = fmt.Errorf("%w: flashcard", ErrDuplicate)

	// ErrReviewExists indicates that a review already exists for the flashcard and owner.
	ErrReviewExists = fmt.Errorf("%w: review", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "deck", "review")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
