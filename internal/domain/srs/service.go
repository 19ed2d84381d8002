// Package srs implements the spaced-repetition scheduling used for flashcard
// reviews.
package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// Common errors
var (
	ErrNilReview = errors.New("review cannot be nil")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// Next returns the schedule following a grade without touching any review.
	Next(quality, priorInterval, priorRepetitions int, priorEase float64) Schedule

	// ApplyGrade returns a copy of review updated for a recall graded with
	// quality at time now. NextReview becomes now plus the new interval in days.
	ApplyGrade(review *domain.Review, quality int, now time.Time) (*domain.Review, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// Next implements Service.
func (s *defaultService) Next(quality, priorInterval, priorRepetitions int, priorEase float64) Schedule {
	return Next(quality, priorInterval, priorRepetitions, priorEase, s.params)
}

// ApplyGrade implements Service.
func (s *defaultService) ApplyGrade(
	review *domain.Review,
	quality int,
	now time.Time,
) (*domain.Review, error) {
	if review == nil {
		return nil, ErrNilReview
	}
	if err := domain.ValidateQuality(quality); err != nil {
		return nil, err
	}

	next := Next(quality, review.Interval, review.Repetitions, review.EaseFactor, s.params)

	now = now.UTC()
	updated := *review
	updated.Quality = quality
	updated.Interval = next.Interval
	updated.Repetitions = next.Repetitions
	updated.EaseFactor = next.EaseFactor
	updated.NextReview = now.AddDate(0, 0, next.Interval)
	updated.UpdatedAt = now

	return &updated, nil
}
