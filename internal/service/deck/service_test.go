package deck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*events.Event
}

func (h *recordingHandler) HandleEvent(_ context.Context, e *events.Event) error {
	h.events = append(h.events, e)
	return nil
}

func newTestService(t *testing.T) (*serviceImpl, *storetest.Memory, *recordingHandler) {
	t.Helper()
	mem := storetest.NewMemory()
	emitter := events.NewInMemoryEventEmitter(nil)
	rec := &recordingHandler{}
	emitter.RegisterHandler(rec)
	svc := NewService(mem.Decks(), emitter, nil).(*serviceImpl)
	return svc, mem, rec
}

func TestResolve_CaseInsensitiveTopic(t *testing.T) {
	t.Parallel()
	svc, mem, rec := newTestService(t)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "user-1", "Travel", "english", domain.ProficiencyA2)
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, "user-1", "  travel ", "english", domain.ProficiencyB1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.ProficiencyA2, second.Proficiency)
	assert.Equal(t, "Travel", second.Name)
	assert.Equal(t, "en", second.Language)
	assert.Equal(t, "English - A2", second.Description)
	assert.Equal(t, 1, mem.DeckCount())

	require.Len(t, rec.events, 1)
	assert.Equal(t, events.TypeDeckCreated, rec.events[0].Type)
}

func TestResolve_ScopedByLanguageAndOwner(t *testing.T) {
	t.Parallel()
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	en, err := svc.Resolve(ctx, "user-1", "Travel", "english", domain.ProficiencyA2)
	require.NoError(t, err)
	de, err := svc.Resolve(ctx, "user-1", "Travel", "german", domain.ProficiencyA2)
	require.NoError(t, err)
	other, err := svc.Resolve(ctx, "user-2", "Travel", "en", domain.ProficiencyA2)
	require.NoError(t, err)

	assert.NotEqual(t, en.ID, de.ID)
	assert.NotEqual(t, en.ID, other.ID)
	assert.Equal(t, 3, mem.DeckCount())
}

func TestResolve_Validation(t *testing.T) {
	t.Parallel()
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "", "Travel", "en", domain.ProficiencyA1)
	assert.ErrorIs(t, err, domain.ErrOwnerIDEmpty)

	_, err = svc.Resolve(ctx, "user-1", "   ", "en", domain.ProficiencyA1)
	assert.ErrorIs(t, err, domain.ErrTopicEmpty)

	_, err = svc.Resolve(ctx, "user-1", "Travel", "", domain.ProficiencyA1)
	assert.ErrorIs(t, err, domain.ErrLanguageEmpty)

	_, err = svc.Resolve(ctx, "user-1", "Travel", "en", domain.Proficiency("Z9"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 0, mem.DeckCount())
}

func TestResolve_StoreFailure(t *testing.T) {
	t.Parallel()
	svc, mem, _ := newTestService(t)
	mem.DeckErr = errors.New("connection refused")

	_, err := svc.Resolve(context.Background(), "user-1", "Travel", "en", domain.ProficiencyA1)
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "resolve", svcErr.Operation)
}

type mockDeckStore struct {
	mock.Mock
}

func (m *mockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *mockDeckStore) GetByKey(ctx context.Context, ownerID, nameKey, language string) (*domain.Deck, error) {
	args := m.Called(ctx, ownerID, nameKey, language)
	if d := args.Get(0); d != nil {
		return d.(*domain.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDeckStore) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, ownerID, id)
	if d := args.Get(0); d != nil {
		return d.(*domain.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDeckStore) ListSummaries(ctx context.Context, ownerID string, now time.Time) ([]domain.DeckSummary, error) {
	args := m.Called(ctx, ownerID, now)
	return args.Get(0).([]domain.DeckSummary), args.Error(1)
}

func (m *mockDeckStore) WithTx(store.DBTX) store.DeckStore { return m }

func TestResolve_ConcurrentCreateRereads(t *testing.T) {
	t.Parallel()

	winner, err := domain.NewDeck("user-1", "Travel", "English - A2", "en", domain.ProficiencyA2)
	require.NoError(t, err)

	decks := &mockDeckStore{}
	decks.On("GetByKey", mock.Anything, "user-1", "travel", "en").Return(nil, store.ErrDeckNotFound).Once()
	decks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Deck")).Return(store.ErrDeckExists).Once()
	decks.On("GetByKey", mock.Anything, "user-1", "travel", "en").Return(winner, nil).Once()

	svc := NewService(decks, nil, nil)
	got, err := svc.Resolve(context.Background(), "user-1", "TRAVEL", "english", domain.ProficiencyB2)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	decks.AssertExpectations(t)
}

func TestCreate(t *testing.T) {
	t.Parallel()
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	deck, err := svc.Create(ctx, "user-1", CreateRequest{Name: "Verbs"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, deck.Language)
	assert.Equal(t, DefaultProficiency, deck.Proficiency)
	assert.Equal(t, "custom - A1", deck.Description)
	assert.Len(t, rec.events, 1)

	_, err = svc.Create(ctx, "user-1", CreateRequest{Name: "verbs", Description: "again"})
	assert.ErrorIs(t, err, ErrDeckExists)

	de, err := svc.Create(ctx, "user-1", CreateRequest{
		Name: "Verbs", Description: "Mine", Language: "German", Proficiency: "B2",
	})
	require.NoError(t, err)
	assert.Equal(t, "de", de.Language)
	assert.Equal(t, "Mine", de.Description)
	assert.Equal(t, domain.ProficiencyB2, de.Proficiency)

	_, err = svc.Create(ctx, "user-1", CreateRequest{Name: "x", Proficiency: "D1"})
	assert.ErrorIs(t, err, domain.ErrInvalidProficiency)
}

func TestGet(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	deck, err := svc.Create(ctx, "user-1", CreateRequest{Name: "Food", Language: "en"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "user-1", deck.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.ID, got.ID)

	_, err = svc.Get(ctx, "user-2", deck.ID)
	assert.ErrorIs(t, err, ErrDeckNotFound)

	_, err = svc.Get(ctx, "user-1", uuid.New())
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestList(t *testing.T) {
	t.Parallel()
	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	older, err := domain.NewDeck("user-1", "Travel", "", "en", domain.ProficiencyA1)
	require.NoError(t, err)
	older.CreatedAt = now.Add(-48 * time.Hour)
	newer, err := domain.NewDeck("user-1", "Food", "", "en", domain.ProficiencyA1)
	require.NoError(t, err)
	newer.CreatedAt = now.Add(-time.Hour)
	mem.PutDeck(*older)
	mem.PutDeck(*newer)

	dueCard, err := domain.NewFlashcard(older, domain.VocabularyItem{Word: "ticket", Type: "noun", Meaning: "a pass"}, domain.ProficiencyA1)
	require.NoError(t, err)
	laterCard, err := domain.NewFlashcard(older, domain.VocabularyItem{Word: "train", Type: "noun", Meaning: "a vehicle"}, domain.ProficiencyA1)
	require.NoError(t, err)
	mem.PutFlashcard(*dueCard)
	mem.PutFlashcard(*laterCard)

	later, err := domain.NewInitialReview(laterCard.ID, "user-1", now.Add(24*time.Hour))
	require.NoError(t, err)
	mem.PutReview(*later)

	summaries, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, 0, summaries[0].FlashcardCount)
	assert.Equal(t, older.ID, summaries[1].ID)
	assert.Equal(t, 2, summaries[1].FlashcardCount)
	assert.Equal(t, 1, summaries[1].DueCount)

	empty, err := svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.List(ctx, "")
	assert.ErrorIs(t, err, domain.ErrOwnerIDEmpty)
}

func TestNewService_NilStorePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewService(nil, nil, nil) })
}
