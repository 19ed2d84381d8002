package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scheduling constants shared by review initialization and the SRS engine.
const (
	MinQuality        = 0
	MaxQuality        = 5
	MinEaseFactor     = 1.3
	InitialEaseFactor = 2.5
)

// Review holds one owner's scheduling state for one flashcard.
// Exactly one Review exists per (FlashcardID, OwnerID).
type Review struct {
	ID          uuid.UUID `json:"id"`
	FlashcardID uuid.UUID `json:"flashcard_id"`
	OwnerID     string    `json:"owner_id"`
	Quality     int       `json:"quality"`
	Interval    int       `json:"interval"`
	Repetitions int       `json:"repetitions"`
	EaseFactor  float64   `json:"ease_factor"`
	NextReview  time.Time `json:"next_review"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewInitialReview returns the state given to a flashcard at ingestion time:
// never studied and due immediately.
func NewInitialReview(flashcardID uuid.UUID, ownerID string, now time.Time) (*Review, error) {
	return newReview(flashcardID, ownerID, 0, now)
}

// NewFirstGradeReview returns the prior state used when a flashcard is graded
// without having a review yet.
func NewFirstGradeReview(flashcardID uuid.UUID, ownerID string, now time.Time) (*Review, error) {
	return newReview(flashcardID, ownerID, 1, now)
}

func newReview(flashcardID uuid.UUID, ownerID string, interval int, now time.Time) (*Review, error) {
	now = now.UTC()
	review := &Review{
		ID:          uuid.New(),
		FlashcardID: flashcardID,
		OwnerID:     ownerID,
		Quality:     0,
		Interval:    interval,
		Repetitions: 0,
		EaseFactor:  InitialEaseFactor,
		NextReview:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// ValidateQuality checks a caller-supplied recall grade.
func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return ErrInvalidQuality
	}
	return nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.FlashcardID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}
	if strings.TrimSpace(r.OwnerID) == "" {
		return ErrOwnerIDEmpty
	}
	if err := ValidateQuality(r.Quality); err != nil {
		return err
	}
	if r.Interval < 0 {
		return ErrInvalidInterval
	}
	if r.Repetitions < 0 {
		return ErrInvalidRepetitions
	}
	if r.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}
	return nil
}

// IsDue reports whether the review is scheduled at or before now.
func (r *Review) IsDue(now time.Time) bool {
	return !r.NextReview.After(now)
}

// DueFlashcard pairs a flashcard with the requesting owner's review, if any.
type DueFlashcard struct {
	Flashcard
	Review *Review `json:"review"`
}
