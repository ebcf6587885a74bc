package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"svc-forge/internal/session"
)

// SessionHandler handles configuration-session lifecycle requests.
type SessionHandler struct {
	manager *session.Manager
	logger  zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(manager *session.Manager, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger.With().Str("handler", "session").Logger(),
	}
}

type createSessionRequest struct {
	ServiceID string `json:"service_id"`
}

// Create handles POST /api/sessions: starts a configuration session for a
// service, fetching its schema and initializing the value store.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.ServiceID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELD", "service_id is required", h.logger)
		return
	}

	s, err := h.manager.Create(r.Context(), req.ServiceID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, s.Snapshot())
}

// Get handles GET /api/sessions/{id}: returns the full session snapshot.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Delete handles DELETE /api/sessions/{id}: discards the session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SwitchService handles PUT /api/sessions/{id}/service: replaces the
// active service schema, rebuilding the whole value model from scratch.
func (h *SessionHandler) SwitchService(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	var req createSessionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.ServiceID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELD", "service_id is required", h.logger)
		return
	}

	if err := s.SwitchService(r.Context(), req.ServiceID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}
