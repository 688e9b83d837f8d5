package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidFormula),
		errors.Is(err, models.ErrInvalidProgress):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONResponse writes a JSON response with the given status code
func writeJSONResponse(log *logger.Logger, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		// The status line is already committed; an encode failure can
		// only be logged at this point.
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// writeErrorResponse writes an error payload with the given status code
func writeErrorResponse(log *logger.Logger, w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("Failed to encode error response", "error", err)
	}
}

// writeDomainError resolves the status from the error taxonomy. Internal
// failures are not echoed to the client verbatim.
func writeDomainError(log *logger.Logger, w http.ResponseWriter, err error) {
	statusCode := statusForError(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeErrorResponse(log, w, statusCode, message)
}

// parseRequestBody parses a JSON request body into the target struct
func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
