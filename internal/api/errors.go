package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service/auth"
	"github.com/phrazzld/lingo-api/internal/service/deck"
	"github.com/phrazzld/lingo-api/internal/service/ingestion"
	"github.com/phrazzld/lingo-api/internal/service/review"
)

// MapErrorToStatusCode maps service and domain errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMissingSubject):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, review.ErrFlashcardNotFound),
		errors.Is(err, review.ErrDeckNotFound),
		errors.Is(err, deck.ErrDeckNotFound):
		return http.StatusNotFound

	case errors.Is(err, deck.ErrDeckExists):
		return http.StatusConflict

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Validation
// errors carry their own text, which is built from fixed messages and request
// positions only; everything else maps to a fixed string.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMissingSubject):
		return "Invalid token"
	case errors.Is(err, review.ErrFlashcardNotFound):
		return "Flashcard not found"
	case errors.Is(err, review.ErrDeckNotFound),
		errors.Is(err, deck.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, deck.ErrDeckExists):
		return "Deck already exists"
	case errors.Is(err, ingestion.ErrDeckResolution):
		return "Failed to save vocabulary"
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return "Request cancelled"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. fallback replaces the generic
// message for 500s so each endpoint reports what failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string, opts ...shared.ResponseOption) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" && !errors.Is(err, ingestion.ErrDeckResolution) {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
