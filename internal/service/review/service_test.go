package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)

type fixture struct {
	mem    *storetest.Memory
	svc    *serviceImpl
	deck   *domain.Deck
	card   *domain.Flashcard
	events []*events.Event
}

func (f *fixture) HandleEvent(_ context.Context, e *events.Event) error {
	f.events = append(f.events, e)
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{mem: storetest.NewMemory()}

	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(f)
	f.svc = NewService(Deps{
		Decks:      f.mem.Decks(),
		Flashcards: f.mem.Flashcards(),
		Reviews:    f.mem.Reviews(),
		SRS:        srs.NewDefaultService(),
		Tx:         f.mem.TxRunner(),
		Emitter:    emitter,
	}).(*serviceImpl)
	f.svc.now = func() time.Time { return testNow }

	f.deck = f.addDeck(t, "user-1", "Travel")
	f.card = f.addCard(t, f.deck, "ticket")
	return f
}

func (f *fixture) addDeck(t *testing.T, owner, name string) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(owner, name, "", "en", domain.ProficiencyA2)
	require.NoError(t, err)
	f.mem.PutDeck(*deck)
	return deck
}

func (f *fixture) addCard(t *testing.T, deck *domain.Deck, word string) *domain.Flashcard {
	t.Helper()
	card, err := domain.NewFlashcard(deck, domain.VocabularyItem{Word: word, Type: "noun", Meaning: word}, deck.Proficiency)
	require.NoError(t, err)
	f.mem.PutFlashcard(*card)
	return card
}

func (f *fixture) addReview(t *testing.T, card *domain.Flashcard, owner string, mutate func(*domain.Review)) *domain.Review {
	t.Helper()
	r, err := domain.NewInitialReview(card.ID, owner, testNow)
	require.NoError(t, err)
	if mutate != nil {
		mutate(r)
	}
	f.mem.PutReview(*r)
	return r
}

func TestGrade_ExistingReview(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.addReview(t, f.card, "user-1", func(r *domain.Review) {
		r.Interval = 6
		r.Repetitions = 2
		r.EaseFactor = 2.5
	})

	got, err := f.svc.Grade(context.Background(), "user-1", f.card.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, got.Quality)
	assert.Equal(t, 15, got.Interval)
	assert.Equal(t, 3, got.Repetitions)
	assert.InDelta(t, 2.6, got.EaseFactor, 1e-9)
	assert.Equal(t, testNow.AddDate(0, 0, 15), got.NextReview)

	stored, ok := f.mem.ReviewFor(f.card.ID, "user-1")
	require.True(t, ok)
	assert.Equal(t, got.Interval, stored.Interval)
	assert.Equal(t, 1, f.mem.ReviewCount())

	require.Len(t, f.events, 1)
	assert.Equal(t, events.TypeReviewGraded, f.events[0].Type)
}

func TestGrade_SentinelReviewFirstSuccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.addReview(t, f.card, "user-1", nil)

	got, err := f.svc.Grade(context.Background(), "user-1", f.card.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Interval)
	assert.Equal(t, 1, got.Repetitions)
	assert.InDelta(t, 2.5, got.EaseFactor, 1e-9)
}

func TestGrade_CreatesReviewWhenMissing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got, err := f.svc.Grade(context.Background(), "user-1", f.card.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Interval)
	assert.Equal(t, 0, got.Repetitions)
	assert.InDelta(t, 2.3, got.EaseFactor, 1e-9)
	assert.Equal(t, 2, got.Quality)
	assert.Equal(t, 1, f.mem.ReviewCount())

	again, err := f.svc.Grade(context.Background(), "user-1", f.card.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
	assert.Equal(t, 1, again.Repetitions)
	assert.Equal(t, 1, f.mem.ReviewCount())
}

func TestGrade_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Grade(ctx, "user-1", f.card.ID, 6)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)

	_, err = f.svc.Grade(ctx, "user-1", f.card.ID, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Grade(ctx, "", f.card.ID, 3)
	assert.ErrorIs(t, err, domain.ErrOwnerIDEmpty)

	_, err = f.svc.Grade(ctx, "user-1", uuid.New(), 3)
	assert.ErrorIs(t, err, ErrFlashcardNotFound)

	_, err = f.svc.Grade(ctx, "user-2", f.card.ID, 3)
	assert.ErrorIs(t, err, ErrFlashcardNotFound)

	assert.Equal(t, 0, f.mem.ReviewCount())
	assert.Empty(t, f.events)
}

func TestGrade_StoreFailureRollsBack(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.mem.BeginErr = errors.New("connection reset")

	_, err := f.svc.Grade(context.Background(), "user-1", f.card.ID, 3)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "grade", svcErr.Operation)

	f.mem.BeginErr = nil
	f.mem.CreateReviewErr = func(*domain.Review) error { return errors.New("disk full") }
	_, err = f.svc.Grade(context.Background(), "user-1", f.card.ID, 3)
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 0, f.mem.ReviewCount())
	assert.Equal(t, 1, f.mem.Rollbacks)
}

func TestGrade_ConcurrentFirstGrade(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var winner *domain.Review
	f.mem.CreateReviewErr = func(r *domain.Review) error {
		// Another request creates the review between our read and our insert.
		winner = f.addReview(t, f.card, "user-1", func(w *domain.Review) {
			w.Interval = 1
			w.Repetitions = 1
		})
		f.mem.CreateReviewErr = nil
		return store.ErrReviewExists
	}

	got, err := f.svc.Grade(context.Background(), "user-1", f.card.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, winner.ID, got.ID)
	assert.Equal(t, 6, got.Interval)
	assert.Equal(t, 2, got.Repetitions)
}

func TestDue(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	overdue := f.addCard(t, f.deck, "station")
	future := f.addCard(t, f.deck, "depart")
	f.addReview(t, overdue, "user-1", func(r *domain.Review) { r.NextReview = testNow.Add(-time.Hour) })
	f.addReview(t, future, "user-1", func(r *domain.Review) { r.NextReview = testNow.Add(time.Hour) })

	otherDeck := f.addDeck(t, "user-1", "Food")
	bread := f.addCard(t, otherDeck, "bread")
	f.addReview(t, bread, "user-1", func(r *domain.Review) { r.NextReview = testNow })

	foreign := f.addDeck(t, "user-2", "Travel")
	f.addCard(t, foreign, "ticket")

	due, err := f.svc.Due(ctx, "user-1", nil)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(due))
	for _, d := range due {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{f.card.ID, overdue.ID, bread.ID}, ids)
	assert.Nil(t, due[0].Review, "never-reviewed cards come first")

	scoped, err := f.svc.Due(ctx, "user-1", &f.deck.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	for _, d := range scoped {
		assert.Equal(t, f.deck.ID, d.DeckID)
	}

	_, err = f.svc.Due(ctx, "user-1", &foreign.ID)
	assert.ErrorIs(t, err, ErrDeckNotFound)

	_, err = f.svc.Due(ctx, "", nil)
	assert.ErrorIs(t, err, domain.ErrOwnerIDEmpty)
}

func TestDue_AfterGradingLeavesSet(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addReview(t, f.card, "user-1", nil)

	due, err := f.svc.Due(ctx, "user-1", nil)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.NotNil(t, due[0].Review)

	_, err = f.svc.Grade(ctx, "user-1", f.card.ID, 5)
	require.NoError(t, err)

	due, err = f.svc.Due(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestNewService_PanicsOnMissingDeps(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewService(Deps{}) })
}
