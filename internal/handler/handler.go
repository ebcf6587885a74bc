package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"svc-forge/internal/model"
	"svc-forge/internal/session"
)

// ErrorResponse is the standardised error payload. Fields carries
// per-field messages for validation failures, keyed by field id or contact
// field name.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Too late to change the status; nothing useful to do.
			return
		}
	}
}

// writeError writes a coded error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeDomainError converts a business error into the appropriate HTTP
// response. Validation errors carry their field map; domain errors map by
// code; anything else is an internal error.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		logger.Warn().Str("error", ve.Message).Int("field_count", len(ve.Fields)).Msg("validation failure")
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   model.ErrCodeValidationFailed,
			Message: ve.Message,
			Fields:  ve.Fields,
		})
		return
	}

	var de *model.DomainError
	if errors.As(err, &de) {
		writeError(w, statusFor(de.Code), de.Code, de.Message, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal error", logger)
}

// statusFor maps domain error codes onto HTTP statuses.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeSessionNotFound, model.ErrCodeUnknownField, model.ErrCodeProductNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnknownOption, model.ErrCodeFieldTypeMismatch,
		model.ErrCodeInvalidJSON, model.ErrCodeInvalidPayment:
		return http.StatusBadRequest
	case model.ErrCodeFormInvalid:
		return http.StatusUnprocessableEntity
	case model.ErrCodeCalculationInFlight, model.ErrCodeSubmissionInFlight,
		model.ErrCodeNoCalculation, model.ErrCodeBookingNotStarted,
		model.ErrCodeStepGate, model.ErrCodeStaleResponse:
		return http.StatusConflict
	case model.ErrCodeSchemaLoad, model.ErrCodeCalculationFailed,
		model.ErrCodeSubmissionFailed, model.ErrCodeUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a request body, reporting malformed input uniformly.
func decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// sessionFrom resolves the {id} path segment to a live session.
func sessionFrom(manager *session.Manager, w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (*session.Session, bool) {
	s, err := manager.Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, logger)
		return nil, false
	}
	return s, true
}
