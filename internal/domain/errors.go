// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or request fails validation.
	// More specific errors below wrap it, so callers can test for the whole class
	// with errors.Is(err, ErrValidation).
	ErrValidation = errors.New("validation failed")

	// ErrOwnerIDEmpty is returned when an owner reference is missing.
	ErrOwnerIDEmpty = wrapValidation("owner ID cannot be empty")

	// ErrTopicEmpty is returned when a deck topic is empty after trimming.
	ErrTopicEmpty = wrapValidation("topic cannot be empty")

	// ErrTopicTooLong is returned when a deck topic exceeds MaxTopicLength.
	ErrTopicTooLong = wrapValidation("topic is too long")

	// ErrLanguageEmpty is returned when no language was supplied.
	ErrLanguageEmpty = wrapValidation("language cannot be empty")

	// ErrInvalidProficiency is returned for labels outside A1..C2.
	ErrInvalidProficiency = wrapValidation("proficiency must be one of A1, A2, B1, B2, C1, C2")

	// ErrWordEmpty is returned when a vocabulary item has no word.
	ErrWordEmpty = wrapValidation("word cannot be empty")

	// ErrWordTooLong is returned when a vocabulary word exceeds MaxWordLength.
	ErrWordTooLong = wrapValidation("word is too long")

	// ErrWordTypeEmpty is returned when a vocabulary item has no word class.
	ErrWordTypeEmpty = wrapValidation("word type cannot be empty")

	// ErrMeaningEmpty is returned when a vocabulary item has no gloss.
	ErrMeaningEmpty = wrapValidation("meaning cannot be empty")

	// ErrBackTextEmpty is returned when no back text could be chosen for a card.
	ErrBackTextEmpty = wrapValidation("flashcard back text cannot be empty")

	// ErrDeckIDEmpty is returned when a flashcard has no owning deck.
	ErrDeckIDEmpty = wrapValidation("deck ID cannot be empty")

	// ErrFlashcardIDEmpty is returned when a review references no flashcard.
	ErrFlashcardIDEmpty = wrapValidation("flashcard ID cannot be empty")

	// ErrInvalidQuality is returned for recall grades outside [0,5].
	ErrInvalidQuality = wrapValidation("quality must be between 0 and 5")

	// ErrInvalidInterval is returned for negative intervals.
	ErrInvalidInterval = wrapValidation("interval must be greater than or equal to 0")

	// ErrInvalidRepetitions is returned for negative repetition counts.
	ErrInvalidRepetitions = wrapValidation("repetitions must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when an ease factor is below MinEaseFactor.
	ErrInvalidEaseFactor = wrapValidation("ease factor must be at least 1.3")
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }

func wrapValidation(msg string) error {
	return &validationError{msg: msg}
}
