package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"svc-forge/internal/model"
	"svc-forge/internal/session"
)

// CheckoutHandler handles the pricing calculation and the booking flow.
type CheckoutHandler struct {
	manager *session.Manager
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(manager *session.Manager, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		manager: manager,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Calculate handles POST /api/sessions/{id}/calculate: validates the form
// and requests the price breakdown from the marketplace backend.
func (h *CheckoutHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	result, err := s.Calculate(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type stepResponse struct {
	Step model.Step `json:"step"`
}

// Start handles POST /api/sessions/{id}/checkout: opens the booking flow.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	step, err := s.StartCheckout()
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, stepResponse{Step: step})
}

// Next handles POST /api/sessions/{id}/checkout/next.
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	step, err := s.Advance()
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stepResponse{Step: step})
}

// Back handles POST /api/sessions/{id}/checkout/back.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	step, err := s.Retreat()
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stepResponse{Step: step})
}

type detailsRequest struct {
	Customer      *model.CustomerInfo `json:"customer,omitempty"`
	Address       *model.Address      `json:"address,omitempty"`
	ClearAddress  bool                `json:"clear_address,omitempty"`
	PaymentMethod *string             `json:"payment_method,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
}

// UpdateDetails handles PUT /api/sessions/{id}/checkout/details: a partial
// update of customer contact, chosen address, payment method and notes.
func (h *CheckoutHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	var req detailsRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	update := session.DetailsUpdate{
		Customer:     req.Customer,
		Address:      req.Address,
		ClearAddress: req.ClearAddress,
		Notes:        req.Notes,
	}
	if req.PaymentMethod != nil {
		pm, err := model.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		update.PaymentMethod = &pm
	}

	if err := s.UpdateDetails(update); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Submit handles POST /api/sessions/{id}/checkout/submit: sends the order
// once and reports the terminal confirmation or the retryable failure.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	conf, err := s.Submit(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, conf)
}

// Cancel handles POST /api/sessions/{id}/checkout/cancel: discards the
// booking state while keeping the configured form.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(h.manager, w, r, h.logger)
	if !ok {
		return
	}

	s.CancelCheckout()
	w.WriteHeader(http.StatusNoContent)
}
