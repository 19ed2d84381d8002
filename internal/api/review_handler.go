package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/service/review"
)

// ReviewHandler handles grading and due-set requests.
type ReviewHandler struct {
	reviews review.Service
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews review.Service, logger *slog.Logger) *ReviewHandler {
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// Grade handles POST /api/reviews.
func (h *ReviewHandler) Grade(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req GradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	flashcardID := uuid.MustParse(req.FlashcardID)

	graded, err := h.reviews.Grade(r.Context(), ownerID, flashcardID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record review")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(graded))
}

// Due handles GET /api/reviews/due?deck_id=.
func (h *ReviewHandler) Due(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	deckID, err := getQueryUUID(r, "deck_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	due, err := h.reviews.Due(r.Context(), ownerID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get due flashcards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dueToResponse(due))
}
