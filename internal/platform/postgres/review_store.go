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

const reviewColumns = `id, flashcard_id, owner_id, quality, interval_days, repetitions, ease_factor,
	next_review, created_at, updated_at`

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the ReviewStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// WithTx implements store.ReviewStore.WithTx.
func (s *PostgresReviewStore) WithTx(tx store.DBTX) store.ReviewStore {
	return &PostgresReviewStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReviewStore.Create.
// A conflict on (flashcard_id, owner_id) returns store.ErrReviewExists.
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during create",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", review.FlashcardID.String()))
		return err
	}

	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (flashcard_id, owner_id) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.FlashcardID,
		review.OwnerID,
		review.Quality,
		review.Interval,
		review.Repetitions,
		review.EaseFactor,
		review.NextReview,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create review",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", review.FlashcardID.String()))
		return store.NewStoreError("review", "create", "insert failed", MapError(err))
	}

	return insertedOrConflict(result, store.ErrReviewExists)
}

// GetForUpdate implements store.ReviewStore.GetForUpdate.
func (s *PostgresReviewStore) GetForUpdate(
	ctx context.Context,
	flashcardID uuid.UUID,
	ownerID string,
) (*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + reviewColumns + `
		FROM reviews
		WHERE flashcard_id = $1 AND owner_id = $2
		FOR UPDATE
	`
	var review domain.Review
	err := s.db.QueryRowContext(ctx, query, flashcardID, ownerID).Scan(
		&review.ID,
		&review.FlashcardID,
		&review.OwnerID,
		&review.Quality,
		&review.Interval,
		&review.Repetitions,
		&review.EaseFactor,
		&review.NextReview,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewNotFound
		}
		log.Error("failed to get review",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", flashcardID.String()))
		return nil, store.NewStoreError("review", "get", "query failed", MapError(err))
	}
	return &review, nil
}

// Update implements store.ReviewStore.Update.
func (s *PostgresReviewStore) Update(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during update",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return err
	}

	query := `
		UPDATE reviews
		SET quality = $1, interval_days = $2, repetitions = $3, ease_factor = $4,
			next_review = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		review.Quality,
		review.Interval,
		review.Repetitions,
		review.EaseFactor,
		review.NextReview,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		log.Error("failed to update review",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return store.NewStoreError("review", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrReviewNotFound); err != nil {
		return err
	}

	log.Debug("review updated",
		slog.String("review_id", review.ID.String()),
		slog.Int("interval", review.Interval),
		slog.Int("repetitions", review.Repetitions))
	return nil
}

// ListDue implements store.ReviewStore.ListDue.
//
// The "never reviewed" branch tests for the absence of any review row on the
// flashcard, while the "overdue" branch reads the owner's own review. Cards
// belong to a single owner, so the two scopes currently coincide.
func (s *PostgresReviewStore) ListDue(
	ctx context.Context,
	ownerID string,
	deckID *uuid.UUID,
	now time.Time,
) ([]domain.DueFlashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deckArg any
	if deckID != nil {
		deckArg = *deckID
	}

	query := `SELECT ` + flashcardColumns + `,
			r.id, r.quality, r.interval_days, r.repetitions, r.ease_factor,
			r.next_review, r.created_at, r.updated_at
		FROM flashcards f
		JOIN decks d ON d.id = f.deck_id
		LEFT JOIN reviews r ON r.flashcard_id = f.id AND r.owner_id = $1
		WHERE d.owner_id = $1
		  AND ($2::uuid IS NULL OR f.deck_id = $2::uuid)
		  AND (
			NOT EXISTS (SELECT 1 FROM reviews rx WHERE rx.flashcard_id = f.id)
			OR r.next_review <= $3
		  )
		ORDER BY r.next_review ASC NULLS FIRST, f.created_at ASC, f.id
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, deckArg, now)
	if err != nil {
		log.Error("failed to query due flashcards",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID))
		return nil, store.NewStoreError("review", "list_due", "query failed", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	due := make([]domain.DueFlashcard, 0)
	for rows.Next() {
		var (
			item        domain.DueFlashcard
			reviewID    uuid.NullUUID
			quality     sql.NullInt32
			interval    sql.NullInt32
			repetitions sql.NullInt32
			ease        sql.NullFloat64
			nextReview  sql.NullTime
			createdAt   sql.NullTime
			updatedAt   sql.NullTime
		)
		if err := rows.Scan(
			&item.ID,
			&item.DeckID,
			&item.OwnerID,
			&item.Front,
			&item.FrontKey,
			&item.Back,
			&item.WordType,
			&item.Language,
			&item.Difficulty,
			&item.CreatedAt,
			&item.UpdatedAt,
			&reviewID,
			&quality,
			&interval,
			&repetitions,
			&ease,
			&nextReview,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, store.NewStoreError("review", "list_due", "scan failed", err)
		}

		if reviewID.Valid {
			item.Review = &domain.Review{
				ID:          reviewID.UUID,
				FlashcardID: item.ID,
				OwnerID:     ownerID,
				Quality:     int(quality.Int32),
				Interval:    int(interval.Int32),
				Repetitions: int(repetitions.Int32),
				EaseFactor:  ease.Float64,
				NextReview:  nextReview.Time,
				CreatedAt:   createdAt.Time,
				UpdatedAt:   updatedAt.Time,
			}
		}
		due = append(due, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review", "list_due", "iteration failed", err)
	}

	log.Debug("due flashcards listed",
		slog.String("owner_id", ownerID),
		slog.Int("count", len(due)))
	return due, nil
}
