package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/domain/srs"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/phrazzld/lingo-api/internal/service/review")

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// Deps are the collaborators of the review Service.
type Deps struct {
	Decks      store.DeckStore
	Flashcards store.FlashcardStore
	Reviews    store.ReviewStore
	SRS        srs.Service
	Tx         store.TxRunner
	// Emitter is optional.
	Emitter events.EventEmitter
	Logger  *slog.Logger
}

type serviceImpl struct {
	decks      store.DeckStore
	flashcards store.FlashcardStore
	reviews    store.ReviewStore
	srs        srs.Service
	tx         store.TxRunner
	emitter    events.EventEmitter
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a review Service. It panics when a required dependency is nil.
func NewService(deps Deps) Service {
	if deps.Decks == nil {
		panic("decks cannot be nil")
	}
	if deps.Flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if deps.Reviews == nil {
		panic("reviews cannot be nil")
	}
	if deps.SRS == nil {
		panic("srs service cannot be nil")
	}
	if deps.Tx == nil {
		panic("tx runner cannot be nil")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &serviceImpl{
		decks:      deps.Decks,
		flashcards: deps.Flashcards,
		reviews:    deps.Reviews,
		srs:        deps.SRS,
		tx:         deps.Tx,
		emitter:    deps.Emitter,
		logger:     log.With(slog.String("component", "review_service")),
		now:        time.Now,
	}
}

func (s *serviceImpl) Grade(
	ctx context.Context,
	ownerID string,
	flashcardID uuid.UUID,
	quality int,
) (*domain.Review, error) {
	ctx, span := tracer.Start(ctx, "review.Grade")
	defer span.End()
	span.SetAttributes(
		attribute.String("flashcard.id", flashcardID.String()),
		attribute.Int("review.quality", quality),
	)

	log := logger.FromContextOrDefault(ctx, s.logger)

	if ownerID == "" {
		return nil, domain.ErrOwnerIDEmpty
	}
	if err := domain.ValidateQuality(quality); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var graded *domain.Review
	err := s.tx.InTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		flashcards := s.flashcards.WithTx(tx)
		reviews := s.reviews.WithTx(tx)

		card, err := flashcards.GetOwned(ctx, ownerID, flashcardID)
		if err != nil {
			if errors.Is(err, store.ErrFlashcardNotFound) {
				return ErrFlashcardNotFound
			}
			return NewGradeError("failed to get flashcard", err)
		}

		current, err := reviews.GetForUpdate(ctx, card.ID, ownerID)
		if errors.Is(err, store.ErrReviewNotFound) {
			current, err = s.createFirstReview(ctx, reviews, card.ID, ownerID, now)
		}
		if err != nil {
			return err
		}

		updated, err := s.srs.ApplyGrade(current, quality, now)
		if err != nil {
			return NewGradeError("failed to apply grade", err)
		}
		if err := reviews.Update(ctx, updated); err != nil {
			return NewGradeError("failed to update review", err)
		}
		graded = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFlashcardNotFound) {
			log.Debug("flashcard not found for grading",
				slog.String("owner_id", ownerID),
				slog.String("flashcard_id", flashcardID.String()))
			return nil, err
		}
		span.SetStatus(codes.Error, "grade failed")
		log.Error("failed to grade flashcard",
			slog.String("owner_id", ownerID),
			slog.String("flashcard_id", flashcardID.String()),
			slog.String("error", err.Error()))
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, NewGradeError("transaction failed", err)
	}

	span.SetAttributes(
		attribute.Int("review.interval", graded.Interval),
		attribute.Int("review.repetitions", graded.Repetitions),
	)
	log.Debug("graded flashcard",
		slog.String("owner_id", ownerID),
		slog.String("flashcard_id", flashcardID.String()),
		slog.Int("quality", quality),
		slog.Int("interval", graded.Interval),
		slog.Time("next_review", graded.NextReview))

	err = events.Emit(ctx, s.emitter, events.TypeReviewGraded, ownerID, events.ReviewGraded{
		FlashcardID: graded.FlashcardID,
		Quality:     graded.Quality,
		Interval:    graded.Interval,
		Repetitions: graded.Repetitions,
		EaseFactor:  graded.EaseFactor,
		NextReview:  graded.NextReview,
	})
	if err != nil {
		log.Warn("failed to emit review event", slog.String("error", err.Error()))
	}

	return graded, nil
}

// createFirstReview inserts the first-grade prior for a flashcard that has never
// been reviewed by ownerID. A concurrent grader inserting first is resolved by
// locking and returning its row.
func (s *serviceImpl) createFirstReview(
	ctx context.Context,
	reviews store.ReviewStore,
	flashcardID uuid.UUID,
	ownerID string,
	now time.Time,
) (*domain.Review, error) {
	prior, err := domain.NewFirstGradeReview(flashcardID, ownerID, now)
	if err != nil {
		return nil, NewGradeError("failed to build review", err)
	}
	err = reviews.Create(ctx, prior)
	if errors.Is(err, store.ErrReviewExists) {
		existing, err := reviews.GetForUpdate(ctx, flashcardID, ownerID)
		if err != nil {
			return nil, NewGradeError("failed to re-read review", err)
		}
		return existing, nil
	}
	if err != nil {
		return nil, NewGradeError("failed to create review", err)
	}
	return prior, nil
}

func (s *serviceImpl) Due(ctx context.Context, ownerID string, deckID *uuid.UUID) ([]domain.DueFlashcard, error) {
	ctx, span := tracer.Start(ctx, "review.Due")
	defer span.End()

	log := logger.FromContextOrDefault(ctx, s.logger)

	if ownerID == "" {
		return nil, domain.ErrOwnerIDEmpty
	}

	if deckID != nil {
		span.SetAttributes(attribute.String("deck.id", deckID.String()))
		if _, err := s.decks.GetByID(ctx, ownerID, *deckID); err != nil {
			if errors.Is(err, store.ErrDeckNotFound) {
				return nil, ErrDeckNotFound
			}
			return nil, NewDueError("failed to get deck", err)
		}
	}

	due, err := s.reviews.ListDue(ctx, ownerID, deckID, s.now().UTC())
	if err != nil {
		span.SetStatus(codes.Error, "list due failed")
		log.Error("failed to list due flashcards",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()))
		return nil, NewDueError("failed to list due flashcards", err)
	}

	span.SetAttributes(attribute.Int("review.due_count", len(due)))
	return due, nil
}
