// Package deck resolves, creates and lists the decks that group an owner's
// flashcards by topic and language.
package deck

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// CreateRequest describes a manually created deck. Language defaults to
// DefaultLanguage and Proficiency to DefaultProficiency when empty.
type CreateRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Language    string `json:"language"    validate:"omitempty,max=64"`
	Proficiency string `json:"proficiency" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
}

const (
	// DefaultLanguage is used for decks created without a language.
	DefaultLanguage = domain.LanguageCustom
	// DefaultProficiency is used for decks created without a proficiency.
	DefaultProficiency = domain.ProficiencyA1
)

// Service finds, creates and lists decks.
type Service interface {
	// Resolve returns the deck identified by (ownerID, topic, language), creating
	// it when absent. The topic match ignores case, surrounding whitespace and
	// Unicode composition; the language is normalized to a code first.
	//
	// On a hit the existing deck is returned unchanged and the proficiency
	// argument is ignored: the label recorded at creation is authoritative.
	// A concurrent creator winning the insert is handled by re-reading the deck
	// it created.
	//
	// Returns:
	//   - (*domain.Deck, nil): the existing or newly created deck
	//   - (nil, error wrapping domain.ErrValidation): invalid owner/topic/language/proficiency
	//   - (nil, *ServiceError): the store failed
	Resolve(
		ctx context.Context,
		ownerID, topic, language string,
		proficiency domain.Proficiency,
	) (*domain.Deck, error)

	// Create makes a new deck from req. It fails with ErrDeckExists when the
	// owner already has a deck with the same normalized name and language.
	Create(ctx context.Context, ownerID string, req CreateRequest) (*domain.Deck, error)

	// Get returns one of the owner's decks, or ErrDeckNotFound.
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Deck, error)

	// List returns the owner's decks newest first with flashcard and due counts.
	List(ctx context.Context, ownerID string) ([]domain.DeckSummary, error)
}

var (
	// ErrDeckNotFound indicates the deck does not exist or is not owned by the caller.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckExists indicates a deck with the same name and language already exists.
	ErrDeckExists = errors.New("deck already exists")
)

// ServiceError wraps errors from the deck service with the failing operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "resolve", "list")
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

// NewResolveError returns a new ServiceError for the resolve operation.
func NewResolveError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "resolve", Message: message, Err: err}
}

// NewCreateError returns a new ServiceError for the create operation.
func NewCreateError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "create", Message: message, Err: err}
}

// NewGetError returns a new ServiceError for the get operation.
func NewGetError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "get", Message: message, Err: err}
}

// NewListError returns a new ServiceError for the list operation.
func NewListError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "list", Message: message, Err: err}
}
