// Package storetest provides an in-memory implementation of the store
// interfaces for service tests, with fault injection and transaction
// rollback.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/store"
)

// Memory holds decks, flashcards and reviews and enforces the same unique
// keys as the PostgreSQL schema.
type Memory struct {
	mu      sync.Mutex
	decks   map[uuid.UUID]domain.Deck
	cards   map[uuid.UUID]domain.Flashcard
	reviews map[uuid.UUID]domain.Review

	// DeckErr, when set, is returned by every DeckStore call.
	DeckErr error
	// ExistsErr, when set, is returned by ExistsByFingerprint.
	ExistsErr error
	// CreateFlashcardErr is consulted before each flashcard insert.
	CreateFlashcardErr func(card *domain.Flashcard) error
	// CreateReviewErr is consulted before each review insert.
	CreateReviewErr func(review *domain.Review) error
	// BeforeExistsCheck runs before each fingerprint lookup, letting tests
	// simulate a concurrent writer.
	BeforeExistsCheck func(ownerID, language, frontKey string)

	// BeginErr, when set, fails InTx before the body runs.
	BeginErr error
	// Commits and Rollbacks count InTx outcomes.
	Commits   int
	Rollbacks int
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{
		decks:   make(map[uuid.UUID]domain.Deck),
		cards:   make(map[uuid.UUID]domain.Flashcard),
		reviews: make(map[uuid.UUID]domain.Review),
	}
}

// Decks returns a DeckStore view.
func (m *Memory) Decks() store.DeckStore { return &deckStore{m: m} }

// Flashcards returns a FlashcardStore view.
func (m *Memory) Flashcards() store.FlashcardStore { return &flashcardStore{m: m} }

// Reviews returns a ReviewStore view.
func (m *Memory) Reviews() store.ReviewStore { return &reviewStore{m: m} }

// TxRunner returns a store.TxRunner that restores the previous state when
// the body fails.
func (m *Memory) TxRunner() store.TxRunner { return &txRunner{m: m} }

// PutDeck stores deck directly, bypassing uniqueness checks.
func (m *Memory) PutDeck(deck domain.Deck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decks[deck.ID] = deck
}

// PutFlashcard stores card directly, bypassing uniqueness checks.
func (m *Memory) PutFlashcard(card domain.Flashcard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
}

// PutReview stores review directly, bypassing uniqueness checks.
func (m *Memory) PutReview(review domain.Review) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[review.ID] = review
}

// FlashcardsFor returns every stored flashcard for owner in language.
func (m *Memory) FlashcardsFor(ownerID, language string) []domain.Flashcard {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Flashcard
	for _, c := range m.cards {
		if c.OwnerID == ownerID && c.Language == language {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Front < out[j].Front })
	return out
}

// ReviewFor returns the review for (flashcardID, ownerID), if any.
func (m *Memory) ReviewFor(flashcardID uuid.UUID, ownerID string) (domain.Review, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.FlashcardID == flashcardID && r.OwnerID == ownerID {
			return r, true
		}
	}
	return domain.Review{}, false
}

// DeckCount returns how many decks are stored.
func (m *Memory) DeckCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.decks)
}

// ReviewCount returns how many reviews are stored.
func (m *Memory) ReviewCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}

type txRunner struct {
	m *Memory
}

func (r *txRunner) InTx(ctx context.Context, fn func(ctx context.Context, tx store.DBTX) error) error {
	m := r.m
	if m.BeginErr != nil {
		return m.BeginErr
	}

	m.mu.Lock()
	decks := cloneMap(m.decks)
	cards := cloneMap(m.cards)
	reviews := cloneMap(m.reviews)
	m.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		m.mu.Lock()
		m.decks, m.cards, m.reviews = decks, cards, reviews
		m.Rollbacks++
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.Commits++
	m.mu.Unlock()
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type deckStore struct {
	m *Memory
}

func (s *deckStore) WithTx(store.DBTX) store.DeckStore { return s }

func (s *deckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if s.m.DeckErr != nil {
		return s.m.DeckErr
	}
	if err := deck.Validate(); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, d := range s.m.decks {
		if d.OwnerID == deck.OwnerID && d.NameKey == deck.NameKey && d.Language == deck.Language {
			return store.ErrDeckExists
		}
	}
	s.m.decks[deck.ID] = *deck
	return nil
}

func (s *deckStore) GetByKey(ctx context.Context, ownerID, nameKey, language string) (*domain.Deck, error) {
	if s.m.DeckErr != nil {
		return nil, s.m.DeckErr
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, d := range s.m.decks {
		if d.OwnerID == ownerID && d.NameKey == nameKey && d.Language == language {
			deck := d
			return &deck, nil
		}
	}
	return nil, store.ErrDeckNotFound
}

func (s *deckStore) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Deck, error) {
	if s.m.DeckErr != nil {
		return nil, s.m.DeckErr
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	d, ok := s.m.decks[id]
	if !ok || d.OwnerID != ownerID {
		return nil, store.ErrDeckNotFound
	}
	return &d, nil
}

func (s *deckStore) ListSummaries(ctx context.Context, ownerID string, now time.Time) ([]domain.DeckSummary, error) {
	if s.m.DeckErr != nil {
		return nil, s.m.DeckErr
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	out := make([]domain.DeckSummary, 0)
	for _, d := range s.m.decks {
		if d.OwnerID != ownerID {
			continue
		}
		summary := domain.DeckSummary{Deck: d}
		for _, c := range s.m.cards {
			if c.DeckID != d.ID {
				continue
			}
			summary.FlashcardCount++
			if s.m.isDueLocked(c, ownerID, now) {
				summary.DueCount++
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type flashcardStore struct {
	m *Memory
}

func (s *flashcardStore) WithTx(store.DBTX) store.FlashcardStore { return s }

func (s *flashcardStore) ExistsByFingerprint(ctx context.Context, ownerID, language, frontKey string) (bool, error) {
	if s.m.BeforeExistsCheck != nil {
		s.m.BeforeExistsCheck(ownerID, language, frontKey)
	}
	if s.m.ExistsErr != nil {
		return false, s.m.ExistsErr
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, c := range s.m.cards {
		if c.OwnerID == ownerID && c.Language == language && c.FrontKey == frontKey {
			return true, nil
		}
	}
	return false, nil
}

func (s *flashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	if s.m.CreateFlashcardErr != nil {
		if err := s.m.CreateFlashcardErr(card); err != nil {
			return err
		}
	}
	if err := card.Validate(); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.decks[card.DeckID]; !ok {
		return store.ErrInvalidEntity
	}
	for _, c := range s.m.cards {
		if c.OwnerID == card.OwnerID && c.Language == card.Language && c.FrontKey == card.FrontKey {
			return store.ErrFlashcardExists
		}
	}
	s.m.cards[card.ID] = *card
	return nil
}

func (s *flashcardStore) GetOwned(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Flashcard, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.cards[id]
	if !ok {
		return nil, store.ErrFlashcardNotFound
	}
	if d, ok := s.m.decks[c.DeckID]; !ok || d.OwnerID != ownerID {
		return nil, store.ErrFlashcardNotFound
	}
	return &c, nil
}

func (s *flashcardStore) CountByOwnerLanguage(ctx context.Context, ownerID, language string) (int, error) {
	return len(s.m.FlashcardsFor(ownerID, language)), nil
}

type reviewStore struct {
	m *Memory
}

func (s *reviewStore) WithTx(store.DBTX) store.ReviewStore { return s }

func (s *reviewStore) Create(ctx context.Context, review *domain.Review) error {
	if s.m.CreateReviewErr != nil {
		if err := s.m.CreateReviewErr(review); err != nil {
			return err
		}
	}
	if err := review.Validate(); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.cards[review.FlashcardID]; !ok {
		return store.ErrInvalidEntity
	}
	for _, r := range s.m.reviews {
		if r.FlashcardID == review.FlashcardID && r.OwnerID == review.OwnerID {
			return store.ErrReviewExists
		}
	}
	s.m.reviews[review.ID] = *review
	return nil
}

func (s *reviewStore) GetForUpdate(ctx context.Context, flashcardID uuid.UUID, ownerID string) (*domain.Review, error) {
	r, ok := s.m.ReviewFor(flashcardID, ownerID)
	if !ok {
		return nil, store.ErrReviewNotFound
	}
	return &r, nil
}

func (s *reviewStore) Update(ctx context.Context, review *domain.Review) error {
	if err := review.Validate(); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.reviews[review.ID]; !ok {
		return store.ErrReviewNotFound
	}
	s.m.reviews[review.ID] = *review
	return nil
}

func (s *reviewStore) ListDue(
	ctx context.Context,
	ownerID string,
	deckID *uuid.UUID,
	now time.Time,
) ([]domain.DueFlashcard, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	out := make([]domain.DueFlashcard, 0)
	for _, c := range s.m.cards {
		d, ok := s.m.decks[c.DeckID]
		if !ok || d.OwnerID != ownerID {
			continue
		}
		if deckID != nil && c.DeckID != *deckID {
			continue
		}
		if !s.m.isDueLocked(c, ownerID, now) {
			continue
		}
		item := domain.DueFlashcard{Flashcard: c}
		for _, r := range s.m.reviews {
			if r.FlashcardID == c.ID && r.OwnerID == ownerID {
				review := r
				item.Review = &review
			}
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Review == nil) != (b.Review == nil) {
			return a.Review == nil
		}
		if a.Review != nil && !a.Review.NextReview.Equal(b.Review.NextReview) {
			return a.Review.NextReview.Before(b.Review.NextReview)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

// isDueLocked mirrors the SQL due predicate: no review row at all, or the
// owner's review scheduled at or before now. Callers hold m.mu.
func (m *Memory) isDueLocked(c domain.Flashcard, ownerID string, now time.Time) bool {
	anyReview := false
	for _, r := range m.reviews {
		if r.FlashcardID != c.ID {
			continue
		}
		anyReview = true
		if r.OwnerID == ownerID && !r.NextReview.After(now) {
			return true
		}
	}
	return !anyReview
}
