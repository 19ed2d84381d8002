package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyGrade(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC)

	review, err := domain.NewInitialReview(uuid.New(), "user-1", now.Add(-48*time.Hour))
	require.NoError(t, err)
	review.Interval = 6
	review.Repetitions = 2

	updated, err := service.ApplyGrade(review, 5, now)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Quality)
	assert.Equal(t, 15, updated.Interval)
	assert.Equal(t, 3, updated.Repetitions)
	assert.InDelta(t, 2.6, updated.EaseFactor, 1e-9)
	assert.Equal(t, now.AddDate(0, 0, 15), updated.NextReview)
	assert.Equal(t, now, updated.UpdatedAt)
	assert.Equal(t, review.ID, updated.ID)

	// original untouched
	assert.Equal(t, 6, review.Interval)
}

func TestApplyGrade_FirstGradeFromPrior(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Now().UTC()

	prior, err := domain.NewFirstGradeReview(uuid.New(), "user-1", now)
	require.NoError(t, err)

	updated, err := service.ApplyGrade(prior, 1, now)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Interval)
	assert.Equal(t, 0, updated.Repetitions)
	assert.InDelta(t, 2.3, updated.EaseFactor, 1e-9)
	assert.Equal(t, now.AddDate(0, 0, 1), updated.NextReview)
}

func TestApplyGrade_Errors(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	_, err := service.ApplyGrade(nil, 3, time.Now())
	assert.ErrorIs(t, err, ErrNilReview)

	review, err := domain.NewInitialReview(uuid.New(), "user-1", time.Now())
	require.NoError(t, err)

	_, err = service.ApplyGrade(review, 6, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)

	_, err = service.ApplyGrade(review, -1, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{SecondInterval: 4})
	assert.Equal(t, 4, params.SecondInterval)
	assert.Equal(t, 1, params.FirstInterval)
	assert.Equal(t, 1.3, params.MinEaseFactor)

	s := NewServiceWithParams(params)
	assert.Equal(t, 4, s.Next(5, 0, 1, 2.5).Interval)
}
