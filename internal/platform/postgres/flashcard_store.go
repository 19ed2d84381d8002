package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

const flashcardColumns = `f.id, f.deck_id, f.owner_id, f.front, f.front_key, f.back, f.word_type,
	f.language, f.difficulty, f.created_at, f.updated_at`

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the FlashcardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx.
func (s *PostgresFlashcardStore) WithTx(tx store.DBTX) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// ExistsByFingerprint implements store.FlashcardStore.ExistsByFingerprint.
// The lookup spans all of the owner's decks.
func (s *PostgresFlashcardStore) ExistsByFingerprint(
	ctx context.Context,
	ownerID, language, frontKey string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM flashcards
			WHERE owner_id = $1 AND language = $2 AND front_key = $3
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, ownerID, language, frontKey).Scan(&exists); err != nil {
		log.Error("failed to check flashcard fingerprint",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID),
			slog.String("language", language))
		return false, store.NewStoreError("flashcard", "exists", "query failed", MapError(err))
	}
	return exists, nil
}

// Create implements store.FlashcardStore.Create.
// A conflict on (owner_id, language, front_key) returns store.ErrFlashcardExists.
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during create",
			slog.String("error", err.Error()),
			slog.String("owner_id", card.OwnerID))
		return err
	}

	query := `
		INSERT INTO flashcards (id, deck_id, owner_id, front, front_key, back, word_type, language,
			difficulty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (owner_id, language, front_key) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.DeckID,
		card.OwnerID,
		card.Front,
		card.FrontKey,
		card.Back,
		card.WordType,
		card.Language,
		card.Difficulty,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()),
			slog.String("deck_id", card.DeckID.String()))
		return store.NewStoreError("flashcard", "create", "insert failed", MapError(err))
	}

	if err := insertedOrConflict(result, store.ErrFlashcardExists); err != nil {
		return err
	}

	log.Debug("flashcard created",
		slog.String("flashcard_id", card.ID.String()),
		slog.String("deck_id", card.DeckID.String()))
	return nil
}

// GetOwned implements store.FlashcardStore.GetOwned.
// Ownership is resolved through the flashcard's deck.
func (s *PostgresFlashcardStore) GetOwned(
	ctx context.Context,
	ownerID string,
	id uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + flashcardColumns + `
		FROM flashcards f
		JOIN decks d ON d.id = f.deck_id
		WHERE f.id = $1 AND d.owner_id = $2
	`
	var card domain.Flashcard
	err := s.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&card.ID,
		&card.DeckID,
		&card.OwnerID,
		&card.Front,
		&card.FrontKey,
		&card.Back,
		&card.WordType,
		&card.Language,
		&card.Difficulty,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.String("flashcard_id", id.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return nil, store.NewStoreError("flashcard", "get", "query failed", MapError(err))
	}
	return &card, nil
}

// CountByOwnerLanguage implements store.FlashcardStore.CountByOwnerLanguage.
func (s *PostgresFlashcardStore) CountByOwnerLanguage(ctx context.Context, ownerID, language string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flashcards WHERE owner_id = $1 AND language = $2`,
		ownerID, language,
	).Scan(&count)
	if err != nil {
		return 0, store.NewStoreError("flashcard", "count", "query failed", MapError(err))
	}
	return count, nil
}
