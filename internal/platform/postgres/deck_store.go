package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

const deckColumns = `d.id, d.owner_id, d.name, d.name_key, d.description, d.language, d.proficiency,
	d.created_at, d.updated_at`

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx.
func (s *PostgresDeckStore) WithTx(tx store.DBTX) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DeckStore.Create.
// A conflict on (owner_id, name_key, language) returns store.ErrDeckExists.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("owner_id", deck.OwnerID))
		return err
	}

	query := `
		INSERT INTO decks (id, owner_id, name, name_key, description, language, proficiency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id, name_key, language) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		deck.ID,
		deck.OwnerID,
		deck.Name,
		deck.NameKey,
		nullString(deck.Description),
		deck.Language,
		string(deck.Proficiency),
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()),
			slog.String("owner_id", deck.OwnerID))
		return store.NewStoreError("deck", "create", "insert failed", MapError(err))
	}

	if err := insertedOrConflict(result, store.ErrDeckExists); err != nil {
		if errors.Is(err, store.ErrDeckExists) {
			log.Debug("deck already exists",
				slog.String("owner_id", deck.OwnerID),
				slog.String("name_key", deck.NameKey),
				slog.String("language", deck.Language))
		}
		return err
	}

	log.Info("deck created successfully",
		slog.String("deck_id", deck.ID.String()),
		slog.String("owner_id", deck.OwnerID),
		slog.String("language", deck.Language))
	return nil
}

// GetByKey implements store.DeckStore.GetByKey.
func (s *PostgresDeckStore) GetByKey(
	ctx context.Context,
	ownerID, nameKey, language string,
) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + `
		FROM decks d
		WHERE d.owner_id = $1 AND d.name_key = $2 AND d.language = $3
	`
	return s.getOne(ctx, query, ownerID, nameKey, language)
}

// GetByID implements store.DeckStore.GetByID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + `
		FROM decks d
		WHERE d.id = $1 AND d.owner_id = $2
	`
	return s.getOne(ctx, query, id, ownerID)
}

func (s *PostgresDeckStore) getOne(ctx context.Context, query string, args ...any) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found")
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck", slog.String("error", err.Error()))
		return nil, store.NewStoreError("deck", "get", "query failed", MapError(err))
	}
	return deck, nil
}

// ListSummaries implements store.DeckStore.ListSummaries.
// A card counts as due under the same rule as ReviewStore.ListDue.
func (s *PostgresDeckStore) ListSummaries(
	ctx context.Context,
	ownerID string,
	now time.Time,
) ([]domain.DeckSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + deckColumns + `,
			COUNT(f.id) AS flashcard_count,
			COUNT(f.id) FILTER (
				WHERE NOT EXISTS (SELECT 1 FROM reviews rx WHERE rx.flashcard_id = f.id)
				   OR r.next_review <= $2
			) AS due_count
		FROM decks d
		LEFT JOIN flashcards f ON f.deck_id = d.id
		LEFT JOIN reviews r ON r.flashcard_id = f.id AND r.owner_id = d.owner_id
		WHERE d.owner_id = $1
		GROUP BY d.id
		ORDER BY d.created_at DESC, d.id
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, now)
	if err != nil {
		log.Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID))
		return nil, store.NewStoreError("deck", "list", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	summaries := make([]domain.DeckSummary, 0)
	for rows.Next() {
		var (
			summary     domain.DeckSummary
			description sql.NullString
			proficiency string
		)
		if err := rows.Scan(
			&summary.ID,
			&summary.OwnerID,
			&summary.Name,
			&summary.NameKey,
			&description,
			&summary.Language,
			&proficiency,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.FlashcardCount,
			&summary.DueCount,
		); err != nil {
			return nil, store.NewStoreError("deck", "list", "scan failed", err)
		}
		summary.Description = description.String
		summary.Proficiency = domain.Proficiency(proficiency)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("deck", "list", "iteration failed", err)
	}

	log.Debug("decks listed",
		slog.String("owner_id", ownerID),
		slog.Int("count", len(summaries)))
	return summaries, nil
}

func scanDeck(row *sql.Row) (*domain.Deck, error) {
	var (
		deck        domain.Deck
		description sql.NullString
		proficiency string
	)
	if err := row.Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Name,
		&deck.NameKey,
		&description,
		&deck.Language,
		&proficiency,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	); err != nil {
		return nil, err
	}
	deck.Description = description.String
	deck.Proficiency = domain.Proficiency(proficiency)
	return &deck, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
