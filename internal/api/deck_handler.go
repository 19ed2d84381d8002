package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service/deck"
)

// DeckHandler handles deck listing, creation and lookup.
type DeckHandler struct {
	decks  deck.Service
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks deck.Service, logger *slog.Logger) *DeckHandler {
	if decks == nil {
		panic("decks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_handler")),
	}
}

// List handles GET /api/decks.
func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	summaries, err := h.decks.List(r.Context(), ownerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summariesToResponse(summaries))
}

// Create handles POST /api/decks.
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.decks.Create(r.Context(), ownerID, deck.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Language:    req.Language,
		Proficiency: req.Proficiency,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("created deck",
		slog.String("owner_id", ownerID),
		slog.String("deck_id", created.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(created))
}

// Get handles GET /api/decks/{id}.
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	found, err := h.decks.Get(r.Context(), ownerID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(found))
}
