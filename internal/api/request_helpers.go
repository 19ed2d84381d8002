package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// requireOwner returns the authenticated owner, writing a 401 when the auth
// middleware did not run.
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := shared.GetOwnerID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Owner not found in request")
		return "", false
	}
	return ownerID, true
}

// getPathUUID parses a UUID chi path parameter.
func getPathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID", domain.ErrValidation, name)
	}
	return id, nil
}

// getQueryUUID parses an optional UUID query parameter; nil means absent.
func getQueryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a UUID", domain.ErrValidation, name)
	}
	return &id, nil
}

// decodeAndValidate decodes the JSON body into v and runs its struct tags,
// writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, shared.ValidationMessage(err), err)
		return false
	}
	return true
}
