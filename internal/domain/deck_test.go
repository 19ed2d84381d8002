package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	deck, err := NewDeck("user-1", "  Travel ", "English - A2", "english", ProficiencyA2)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, deck.ID)
	assert.Equal(t, "Travel", deck.Name)
	assert.Equal(t, "travel", deck.NameKey)
	assert.Equal(t, "en", deck.Language)
	assert.Equal(t, ProficiencyA2, deck.Proficiency)
	assert.False(t, deck.CreatedAt.IsZero())
	assert.Equal(t, deck.CreatedAt, deck.UpdatedAt)
}

func TestNewDeck_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		owner   string
		topic   string
		lang    string
		prof    Proficiency
		wantErr error
	}{
		{"missing owner", "", "Travel", "en", ProficiencyA1, ErrOwnerIDEmpty},
		{"blank topic", "u", "   ", "en", ProficiencyA1, ErrTopicEmpty},
		{"long topic", "u", strings.Repeat("x", MaxTopicLength+1), "en", ProficiencyA1, ErrTopicTooLong},
		{"missing language", "u", "Travel", " ", ProficiencyA1, ErrLanguageEmpty},
		{"bad proficiency", "u", "Travel", "en", Proficiency("Z9"), ErrInvalidProficiency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDeck(tt.owner, tt.topic, "", tt.lang, tt.prof)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
