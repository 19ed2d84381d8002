// Package ingestion turns a lesson's vocabulary into decks, flashcards and
// initial reviews without creating duplicates across repeated submissions.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/redact"
	"github.com/phrazzld/lingo-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/phrazzld/lingo-api/internal/service/ingestion")

// ErrDeckResolution marks a fatal ingestion: the target deck could not be found
// or created, so no item was processed.
var ErrDeckResolution = errors.New("deck resolution failed")

// DeckResolver finds or creates the deck for (owner, topic, language).
type DeckResolver interface {
	Resolve(
		ctx context.Context,
		ownerID, topic, language string,
		proficiency domain.Proficiency,
	) (*domain.Deck, error)
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Decks      DeckResolver
	Detector   DuplicateDetector
	Flashcards store.FlashcardStore
	Reviews    store.ReviewStore
	Tx         store.TxRunner
	// Emitter is optional.
	Emitter events.EventEmitter
	Logger  *slog.Logger
	// MaxBatchSize defaults to DefaultMaxBatchSize.
	MaxBatchSize int
}

// Pipeline ingests vocabulary batches. It holds no per-call state and is safe
// for concurrent use.
type Pipeline struct {
	decks      DeckResolver
	detector   DuplicateDetector
	flashcards store.FlashcardStore
	reviews    store.ReviewStore
	tx         store.TxRunner
	emitter    events.EventEmitter
	logger     *slog.Logger
	maxBatch   int
	now        func() time.Time
}

// NewPipeline creates a Pipeline. It panics when a required dependency is nil.
func NewPipeline(deps Deps) *Pipeline {
	if deps.Decks == nil {
		panic("deck resolver cannot be nil")
	}
	if deps.Detector == nil {
		panic("duplicate detector cannot be nil")
	}
	if deps.Flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if deps.Reviews == nil {
		panic("reviews cannot be nil")
	}
	if deps.Tx == nil {
		panic("tx runner cannot be nil")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	maxBatch := deps.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}
	return &Pipeline{
		decks:      deps.Decks,
		detector:   deps.Detector,
		flashcards: deps.Flashcards,
		reviews:    deps.Reviews,
		tx:         deps.Tx,
		emitter:    deps.Emitter,
		logger:     log.With(slog.String("component", "ingestion_pipeline")),
		maxBatch:   maxBatch,
		now:        time.Now,
	}
}

// MaxBatchSize returns the largest accepted vocabulary array.
func (p *Pipeline) MaxBatchSize() int { return p.maxBatch }

type outcome int

const (
	outcomeCreated outcome = iota
	outcomeSkipped
)

// Ingest validates req, resolves its deck once and then processes each item in
// order. A duplicate item is skipped; a failing item is recorded in
// Result.Errors and processing continues.
//
// Returns:
//   - (*Result, nil): the batch completed; Result.Errors lists failed items
//   - (nil, error wrapping domain.ErrValidation): req was rejected before any storage access
//   - (*Result{Success: false}, error wrapping ErrDeckResolution): nothing was written
//   - (*Result{Success: false}, ctx.Err()): the call was cancelled; items before
//     the cancellation point remain committed
func (p *Pipeline) Ingest(ctx context.Context, ownerID string, req Request) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "ingestion.Ingest")
	defer span.End()

	log := logger.FromContextOrDefault(ctx, p.logger)

	if ownerID == "" {
		return nil, domain.ErrOwnerIDEmpty
	}
	proficiency, err := req.Validate(p.maxBatch)
	if err != nil {
		log.Debug("rejected ingestion request",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("ingestion.language", req.Language),
		attribute.Int("ingestion.items", len(req.Vocabulary)),
	)

	deck, err := p.decks.Resolve(ctx, ownerID, req.Topic, req.Language, proficiency)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "deck resolution failed")
		log.Error("vocabulary ingestion failed",
			slog.String("owner_id", ownerID),
			slog.String("topic", req.Topic),
			slog.String("language", req.Language),
			slog.String("error", redact.Error(err)))
		return &Result{Success: false}, fmt.Errorf("%w: %w", ErrDeckResolution, err)
	}

	result := &Result{DeckID: deck.ID, DeckName: deck.Name}
	for _, item := range req.Vocabulary {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			p.logSummary(ctx, ownerID, req, result, time.Since(start))
			return result, err
		}

		out, err := p.ingestItem(ctx, ownerID, deck, item, proficiency)
		if err != nil {
			log.Warn("failed to ingest vocabulary item",
				slog.String("owner_id", ownerID),
				slog.String("deck_id", deck.ID.String()),
				slog.String("word", item.Word),
				slog.String("error", redact.Error(err)))
			result.Errors = append(result.Errors, itemErrorMessage(item.Word, err))
			continue
		}
		switch out {
		case outcomeCreated:
			result.Created++
		case outcomeSkipped:
			result.Skipped++
		}
	}
	result.Success = true

	span.SetAttributes(
		attribute.Int("ingestion.created", result.Created),
		attribute.Int("ingestion.skipped", result.Skipped),
		attribute.Int("ingestion.failed", len(result.Errors)),
	)
	p.logSummary(ctx, ownerID, req, result, time.Since(start))

	err = events.Emit(ctx, p.emitter, events.TypeVocabularyIngested, ownerID, events.VocabularyIngested{
		DeckID:   deck.ID,
		DeckName: deck.Name,
		Language: deck.Language,
		Created:  result.Created,
		Skipped:  result.Skipped,
		Failed:   len(result.Errors),
	})
	if err != nil {
		log.Warn("failed to emit ingestion event", slog.String("error", err.Error()))
	}

	return result, nil
}

// ingestItem creates the flashcard and its sentinel review atomically, or
// reports a skip when the owner already has the word in this language.
func (p *Pipeline) ingestItem(
	ctx context.Context,
	ownerID string,
	deck *domain.Deck,
	item domain.VocabularyItem,
	proficiency domain.Proficiency,
) (outcome, error) {
	exists, err := p.detector.Exists(ctx, ownerID, item.Word, deck.Language)
	if err != nil {
		return 0, err
	}
	if exists {
		return outcomeSkipped, nil
	}

	card, err := domain.NewFlashcard(deck, item, proficiency)
	if err != nil {
		return 0, err
	}

	err = p.tx.InTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		if err := p.flashcards.WithTx(tx).Create(ctx, card); err != nil {
			return err
		}
		review, err := domain.NewInitialReview(card.ID, ownerID, p.now().UTC())
		if err != nil {
			return err
		}
		return p.reviews.WithTx(tx).Create(ctx, review)
	})
	if errors.Is(err, store.ErrFlashcardExists) {
		// A concurrent ingestion wrote the same fingerprint after our check.
		return outcomeSkipped, nil
	}
	if err != nil {
		return 0, err
	}
	return outcomeCreated, nil
}

// itemErrorMessage formats a per-item failure for the caller. Validation
// messages are passed through; anything else is reported generically so
// driver text never reaches clients.
func itemErrorMessage(word string, err error) string {
	msg := "could not be saved"
	if errors.Is(err, domain.ErrValidation) {
		msg = err.Error()
	}
	return fmt.Sprintf("Failed to process %q: %s", word, msg)
}

func (p *Pipeline) logSummary(ctx context.Context, ownerID string, req Request, result *Result, d time.Duration) {
	logger.FromContextOrDefault(ctx, p.logger).Info("vocabulary ingestion",
		slog.String("owner_id", ownerID),
		slog.String("topic", req.Topic),
		slog.String("language", req.Language),
		slog.Int("vocabulary_count", len(req.Vocabulary)),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("error_count", len(result.Errors)),
		slog.Duration("duration", d))
}
