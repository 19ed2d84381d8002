package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service/ingestion"
)

// Ingester persists a lesson's vocabulary.
type Ingester interface {
	Ingest(ctx context.Context, ownerID string, req ingestion.Request) (*ingestion.Result, error)
}

// LessonHandler handles lesson vocabulary requests.
type LessonHandler struct {
	ingester Ingester
	logger   *slog.Logger
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(ingester Ingester, logger *slog.Logger) *LessonHandler {
	if ingester == nil {
		panic("ingester cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LessonHandler{
		ingester: ingester,
		logger:   logger.With(slog.String("component", "lesson_handler")),
	}
}

// SaveVocabulary handles POST /api/lessons/vocabulary.
func (h *LessonHandler) SaveVocabulary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req SaveVocabularyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.ingester.Ingest(r.Context(), ownerID, req.toIngestion())
	if err != nil {
		if errors.Is(err, ingestion.ErrDeckResolution) {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to save vocabulary", err,
				shared.WithDetails([]string{"deck could not be resolved"}))
			return
		}
		HandleAPIError(w, r, err, "Failed to save vocabulary")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("saved lesson vocabulary",
		slog.String("owner_id", ownerID),
		slog.String("deck_id", result.DeckID.String()),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
