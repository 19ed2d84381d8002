package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitialReview(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	r, err := NewInitialReview(cardID, "user-1", now)
	require.NoError(t, err)

	assert.Equal(t, cardID, r.FlashcardID)
	assert.Equal(t, 0, r.Quality)
	assert.Equal(t, 0, r.Interval)
	assert.Equal(t, 0, r.Repetitions)
	assert.Equal(t, InitialEaseFactor, r.EaseFactor)
	assert.Equal(t, now, r.NextReview)
	assert.True(t, r.IsDue(now))
}

func TestNewFirstGradeReview(t *testing.T) {
	t.Parallel()

	r, err := NewFirstGradeReview(uuid.New(), "user-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Interval)
	assert.Equal(t, 0, r.Repetitions)
	assert.Equal(t, InitialEaseFactor, r.EaseFactor)
}

func TestReviewValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Review {
		r, err := NewInitialReview(uuid.New(), "user-1", time.Now())
		require.NoError(t, err)
		return r
	}

	r := valid()
	r.EaseFactor = 1.29
	assert.ErrorIs(t, r.Validate(), ErrInvalidEaseFactor)

	r = valid()
	r.Quality = 6
	assert.ErrorIs(t, r.Validate(), ErrInvalidQuality)

	r = valid()
	r.Interval = -1
	assert.ErrorIs(t, r.Validate(), ErrInvalidInterval)

	r = valid()
	r.OwnerID = ""
	assert.ErrorIs(t, r.Validate(), ErrOwnerIDEmpty)

	_, err := NewInitialReview(uuid.Nil, "user-1", time.Now())
	assert.ErrorIs(t, err, ErrFlashcardIDEmpty)
}

func TestReviewIsDue(t *testing.T) {
	t.Parallel()

	now := time.Now()
	r := &Review{NextReview: now.Add(time.Hour)}
	assert.False(t, r.IsDue(now))

	r.NextReview = now.Add(-time.Second)
	assert.True(t, r.IsDue(now))
}
