package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"svc-forge/internal/model"
	"svc-forge/internal/session"
)

// Uploads larger than this are rejected before staging.
const maxUploadBytes = 32 << 20

// BuilderHandler handles the form-building requests: field values,
// checkbox toggles, file staging and the add-on product selection.
type BuilderHandler struct {
	manager *session.Manager
	logger  zerolog.Logger
}

// NewBuilderHandler creates a new builder handler.
func NewBuilderHandler(manager *session.Manager, logger zerolog.Logger) *BuilderHandler {
	return &BuilderHandler{
		manager: manager,
		logger:  logger.With().Str("handler", "builder").Logger(),
	}
}

type setValueRequest struct {
	Value string `json:"value"`
}

// SetValue handles PUT /api/sessions/{id}/values/{fieldID}: overwrites a
// scalar or single-choice field value.
func (h *BuilderHandler) SetValue(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	var req setValueRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := s.SetValue(r.PathValue("fieldID"), req.Value); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

type toggleOptionRequest struct {
	OptionID string `json:"option_id"`
}

// ToggleOption handles POST /api/sessions/{id}/values/{fieldID}/toggle:
// flips one option in a checkbox field's set.
func (h *BuilderHandler) ToggleOption(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	var req toggleOptionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.OptionID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELD", "option_id is required", h.logger)
		return
	}

	if err := s.ToggleCheckboxOption(r.PathValue("fieldID"), req.OptionID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// UploadFile handles POST /api/sessions/{id}/values/{fieldID}/file:
// stages a multipart upload onto a file field.
func (h *BuilderHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid multipart body", h.logger)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FIELD", "file part is required", h.logger)
		return
	}
	defer file.Close()

	if err := s.StageFile(r.Context(), r.PathValue("fieldID"), header.Filename, file); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// ClearFile handles DELETE /api/sessions/{id}/values/{fieldID}/file:
// removes the staged file and its display name.
func (h *BuilderHandler) ClearFile(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	if err := s.ClearFile(r.Context(), r.PathValue("fieldID")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// ToggleProduct handles POST /api/sessions/{id}/products/{productID}/toggle:
// selects an add-on with quantity 1, or removes it when already selected.
func (h *BuilderHandler) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	if err := s.ToggleProduct(r.PathValue("productID")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity handles PUT /api/sessions/{id}/products/{productID}: updates
// an add-on quantity; zero or below removes the selection entirely.
func (h *BuilderHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	var req setQuantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := s.SetProductQuantity(r.PathValue("productID"), req.Quantity); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}
