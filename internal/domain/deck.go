package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTopicLength bounds deck names in characters.
const MaxTopicLength = 200

// Deck groups an owner's flashcards by topic and language.
// At most one deck exists per (owner, NameKey, Language).
type Deck struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Name        string      `json:"name"`
	NameKey     string      `json:"-"`
	Description string      `json:"description,omitempty"`
	Language    string      `json:"language"`
	Proficiency Proficiency `json:"proficiency"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewDeck creates a validated Deck with a fresh ID. The name is trimmed and its
// normalization key computed; the language is normalized to a stored code.
func NewDeck(ownerID, name, description, lang string, proficiency Proficiency) (*Deck, error) {
	now := time.Now().UTC()
	trimmed := strings.TrimSpace(name)
	deck := &Deck{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        trimmed,
		NameKey:     NormalizeKey(trimmed),
		Description: strings.TrimSpace(description),
		Language:    NormalizeLanguage(lang),
		Proficiency: proficiency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if strings.TrimSpace(d.OwnerID) == "" {
		return ErrOwnerIDEmpty
	}
	if d.NameKey == "" {
		return ErrTopicEmpty
	}
	if utf8.RuneCountInString(d.Name) > MaxTopicLength {
		return ErrTopicTooLong
	}
	if d.Language == "" {
		return ErrLanguageEmpty
	}
	if !d.Proficiency.IsValid() {
		return ErrInvalidProficiency
	}
	return nil
}

// DeckSummary is a deck together with its card counts, as shown in deck listings.
type DeckSummary struct {
	Deck
	FlashcardCount int `json:"flashcard_count"`
	DueCount       int `json:"due_count"`
}
