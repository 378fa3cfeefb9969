/* respond.go
 * Contains helpers for decoding requests and writing JSON responses, including the mapping of api errors to HTTP
 * status codes
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"confidence-pool/api/shared"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorStatus maps an api error to its HTTP status code and optional details
func errorStatus(err error) (int, interface{}) {
	var invalid *shared.InvalidPickDataError
	var duplicate *shared.DuplicateConfidenceError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Picks
	case errors.As(err, &duplicate):
		return http.StatusBadRequest, duplicateConfidenceDetails{Value: duplicate.Value, Round: string(duplicate.Round)}
	case errors.Is(err, shared.ErrStorageFailure):
		return http.StatusInternalServerError, nil
	case errors.Is(err, shared.ErrInvalidPickData),
		errors.Is(err, shared.ErrDuplicateConfidenceValue),
		errors.Is(err, shared.ErrInvalidTeamSelection),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, nil
	case errors.Is(err, shared.ErrDuplicatePick):
		return http.StatusConflict, nil
	case errors.Is(err, shared.ErrDependentNotFound),
		errors.Is(err, shared.ErrNotFound),
		errors.Is(err, shared.ErrNoActivePool):
		return http.StatusNotFound, nil
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, nil
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, nil
	default:
		return http.StatusInternalServerError, nil
	}
}

// writeError writes an api error as a JSON error response. Server errors are logged and their message is hidden
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, details := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		message = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Message: message, Details: details})
}

// decodeBody decodes a JSON request body. A malformed body is an ErrInvalidInput
func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %s", shared.ErrInvalidInput, err)
	}
	return nil
}

// pathID reads the {id} route variable
func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id", shared.ErrInvalidInput)
	}
	return id, nil
}

// dependentQuery reads the optional dependentId query parameter
func dependentQuery(r *http.Request) (*primitive.ObjectID, error) {
	raw := r.URL.Query().Get("dependentId")
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dependentId", shared.ErrInvalidInput)
	}
	return &id, nil
}
