package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDifficulty is assigned to every new flashcard.
const DefaultDifficulty = 3

// Flashcard is a single vocabulary card. Front keeps the word as submitted;
// FrontKey is its normalization key and, together with OwnerID and Language,
// forms the fingerprint used for duplicate detection.
type Flashcard struct {
	ID         uuid.UUID `json:"id"`
	DeckID     uuid.UUID `json:"deck_id"`
	OwnerID    string    `json:"owner_id"`
	Front      string    `json:"front"`
	FrontKey   string    `json:"-"`
	Back       string    `json:"back"`
	WordType   string    `json:"word_type"`
	Language   string    `json:"language"`
	Difficulty int       `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewFlashcard builds a flashcard for a vocabulary item in the given deck.
// The back text is chosen by the learner's proficiency p, which may differ from
// the deck's label when an existing deck is reused: beginners (A1, A2) get the
// native-language meaning, everyone else gets the target-language definition,
// falling back to the meaning when no definition was supplied.
func NewFlashcard(deck *Deck, item VocabularyItem, p Proficiency) (*Flashcard, error) {
	if deck == nil || deck.ID == uuid.Nil {
		return nil, ErrDeckIDEmpty
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card := &Flashcard{
		ID:         uuid.New(),
		DeckID:     deck.ID,
		OwnerID:    deck.OwnerID,
		Front:      strings.TrimSpace(item.Word),
		FrontKey:   NormalizeKey(item.Word),
		Back:       BackText(item, p),
		WordType:   strings.TrimSpace(item.Type),
		Language:   deck.Language,
		Difficulty: DefaultDifficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// BackText selects the text shown on the back of a card for the given level.
func BackText(item VocabularyItem, p Proficiency) string {
	meaning := strings.TrimSpace(item.Meaning)
	if p.IsBeginner() {
		return meaning
	}
	if def := strings.TrimSpace(item.Definition); def != "" {
		return def
	}
	return meaning
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.DeckID == uuid.Nil {
		return ErrDeckIDEmpty
	}
	if strings.TrimSpace(f.OwnerID) == "" {
		return ErrOwnerIDEmpty
	}
	if f.FrontKey == "" {
		return ErrWordEmpty
	}
	if f.Back == "" {
		return ErrBackTextEmpty
	}
	if f.Language == "" {
		return ErrLanguageEmpty
	}
	return nil
}
