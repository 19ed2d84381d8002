package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantDuplicate bool
	}{
		{"nil error", nil, false, false},
		{"generic error", errors.New("some error"), false, false},
		{"ErrNotFound", ErrNotFound, true, false},
		{"wrapped deck not found", fmt.Errorf("lookup: %w", ErrDeckNotFound), true, false},
		{"flashcard not found", ErrFlashcardNotFound, true, false},
		{"review not found", ErrReviewNotFound, true, false},
		{"deck exists", ErrDeckExists, false, true},
		{"wrapped flashcard exists", fmt.Errorf("insert: %w", ErrFlashcardExists), false, true},
		{"review exists", ErrReviewExists, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNotFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.wantDuplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	base := errors.New("connection reset")
	err := NewStoreError("deck", "create", "insert failed", base)

	assert.Equal(t, "create operation on deck failed: insert failed: connection reset", err.Error())
	assert.ErrorIs(t, err, base)

	noWrap := NewStoreError("review", "update", "no rows", nil)
	assert.Equal(t, "update operation on review failed: no rows", noWrap.Error())
}
