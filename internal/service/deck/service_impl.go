package deck

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/phrazzld/lingo-api/internal/service/deck")

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	decks   store.DeckStore
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a deck Service. emitter may be nil.
func NewService(decks store.DeckStore, emitter events.EventEmitter, logger *slog.Logger) Service {
	if decks == nil {
		panic("decks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		decks:   decks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "deck_service")),
		now:     time.Now,
	}
}

func (s *serviceImpl) Resolve(
	ctx context.Context,
	ownerID, topic, language string,
	proficiency domain.Proficiency,
) (*domain.Deck, error) {
	ctx, span := tracer.Start(ctx, "deck.Resolve")
	defer span.End()

	log := logger.FromContextOrDefault(ctx, s.logger)

	code := domain.NormalizeLanguage(language)
	candidate, err := domain.NewDeck(ownerID, topic, domain.DeckDescription(code, proficiency), code, proficiency)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("deck.language", candidate.Language),
		attribute.String("deck.name_key", candidate.NameKey),
	)

	existing, err := s.decks.GetByKey(ctx, ownerID, candidate.NameKey, candidate.Language)
	if err == nil {
		span.SetAttributes(attribute.Bool("deck.created", false))
		return existing, nil
	}
	if !errors.Is(err, store.ErrDeckNotFound) {
		span.SetStatus(codes.Error, "deck lookup failed")
		log.Error("failed to look up deck",
			slog.String("owner_id", ownerID),
			slog.String("language", candidate.Language),
			slog.String("error", err.Error()))
		return nil, NewResolveError("failed to look up deck", err)
	}

	err = s.decks.Create(ctx, candidate)
	if errors.Is(err, store.ErrDeckExists) {
		// Lost the insert race; the winner's row is the deck.
		log.Debug("deck created concurrently, re-reading",
			slog.String("owner_id", ownerID),
			slog.String("name_key", candidate.NameKey))
		existing, err = s.decks.GetByKey(ctx, ownerID, candidate.NameKey, candidate.Language)
		if err != nil {
			span.SetStatus(codes.Error, "deck re-read failed")
			return nil, NewResolveError("failed to re-read concurrently created deck", err)
		}
		return existing, nil
	}
	if err != nil {
		span.SetStatus(codes.Error, "deck create failed")
		log.Error("failed to create deck",
			slog.String("owner_id", ownerID),
			slog.String("language", candidate.Language),
			slog.String("error", err.Error()))
		return nil, NewResolveError("failed to create deck", err)
	}

	span.SetAttributes(attribute.Bool("deck.created", true))
	log.Info("created deck",
		slog.String("owner_id", ownerID),
		slog.String("deck_id", candidate.ID.String()),
		slog.String("language", candidate.Language),
		slog.String("proficiency", string(candidate.Proficiency)))
	s.emitCreated(ctx, candidate)
	return candidate, nil
}

func (s *serviceImpl) Create(ctx context.Context, ownerID string, req CreateRequest) (*domain.Deck, error) {
	ctx, span := tracer.Start(ctx, "deck.Create")
	defer span.End()

	log := logger.FromContextOrDefault(ctx, s.logger)

	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}
	proficiency := DefaultProficiency
	if req.Proficiency != "" {
		p, err := domain.ParseProficiency(req.Proficiency)
		if err != nil {
			return nil, err
		}
		proficiency = p
	}

	code := domain.NormalizeLanguage(language)
	description := req.Description
	if description == "" {
		description = domain.DeckDescription(code, proficiency)
	}

	deck, err := domain.NewDeck(ownerID, req.Name, description, code, proficiency)
	if err != nil {
		return nil, err
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		if errors.Is(err, store.ErrDeckExists) {
			log.Debug("deck already exists",
				slog.String("owner_id", ownerID),
				slog.String("name_key", deck.NameKey))
			return nil, ErrDeckExists
		}
		span.SetStatus(codes.Error, "deck create failed")
		log.Error("failed to create deck",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()))
		return nil, NewCreateError("failed to create deck", err)
	}

	log.Info("created deck",
		slog.String("owner_id", ownerID),
		slog.String("deck_id", deck.ID.String()))
	s.emitCreated(ctx, deck)
	return deck, nil
}

func (s *serviceImpl) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, NewGetError("failed to get deck", err)
	}
	return deck, nil
}

func (s *serviceImpl) List(ctx context.Context, ownerID string) ([]domain.DeckSummary, error) {
	ctx, span := tracer.Start(ctx, "deck.List")
	defer span.End()

	if ownerID == "" {
		return nil, domain.ErrOwnerIDEmpty
	}
	summaries, err := s.decks.ListSummaries(ctx, ownerID, s.now().UTC())
	if err != nil {
		span.SetStatus(codes.Error, "list failed")
		return nil, NewListError("failed to list decks", err)
	}
	span.SetAttributes(attribute.Int("deck.count", len(summaries)))
	return summaries, nil
}

func (s *serviceImpl) emitCreated(ctx context.Context, deck *domain.Deck) {
	err := events.Emit(ctx, s.emitter, events.TypeDeckCreated, deck.OwnerID, events.DeckCreated{
		DeckID:   deck.ID,
		Name:     deck.Name,
		Language: deck.Language,
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit deck event",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
	}
}
