package ingestion

import (
	"context"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

// DuplicateDetector reports whether an owner already has a flashcard for a word
// in a language, across all of that owner's decks.
type DuplicateDetector interface {
	Exists(ctx context.Context, ownerID, word, language string) (bool, error)
}

type fingerprintDetector struct {
	flashcards store.FlashcardStore
}

// NewDuplicateDetector returns a DuplicateDetector backed by the flashcard
// store's (owner, language, front key) fingerprint index.
func NewDuplicateDetector(flashcards store.FlashcardStore) DuplicateDetector {
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	return &fingerprintDetector{flashcards: flashcards}
}

func (d *fingerprintDetector) Exists(ctx context.Context, ownerID, word, language string) (bool, error) {
	key := domain.NormalizeKey(word)
	if key == "" {
		return false, domain.ErrWordEmpty
	}
	return d.flashcards.ExistsByFingerprint(ctx, ownerID, domain.NormalizeLanguage(language), key)
}
