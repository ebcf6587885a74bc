package router

import (
	"net/http"

	"github.com/rs/zerolog"

	"svc-forge/internal/handler"
	"svc-forge/internal/middleware"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	sessionHandler *handler.SessionHandler,
	builderHandler *handler.BuilderHandler,
	checkoutHandler *handler.CheckoutHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no credential required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Session lifecycle
	mux.HandleFunc("POST /api/sessions", sessionHandler.Create)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.Get)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.Delete)
	mux.HandleFunc("PUT /api/sessions/{id}/service", sessionHandler.SwitchService)

	// Form building
	mux.HandleFunc("PUT /api/sessions/{id}/values/{fieldID}", builderHandler.SetValue)
	mux.HandleFunc("POST /api/sessions/{id}/values/{fieldID}/toggle", builderHandler.ToggleOption)
	mux.HandleFunc("POST /api/sessions/{id}/values/{fieldID}/file", builderHandler.UploadFile)
	mux.HandleFunc("DELETE /api/sessions/{id}/values/{fieldID}/file", builderHandler.ClearFile)
	mux.HandleFunc("POST /api/sessions/{id}/products/{productID}/toggle", builderHandler.ToggleProduct)
	mux.HandleFunc("PUT /api/sessions/{id}/products/{productID}", builderHandler.SetQuantity)

	// Pricing and checkout
	mux.HandleFunc("POST /api/sessions/{id}/calculate", checkoutHandler.Calculate)
	mux.HandleFunc("POST /api/sessions/{id}/checkout", checkoutHandler.Start)
	mux.HandleFunc("POST /api/sessions/{id}/checkout/next", checkoutHandler.Next)
	mux.HandleFunc("POST /api/sessions/{id}/checkout/back", checkoutHandler.Back)
	mux.HandleFunc("PUT /api/sessions/{id}/checkout/details", checkoutHandler.UpdateDetails)
	mux.HandleFunc("POST /api/sessions/{id}/checkout/submit", checkoutHandler.Submit)
	mux.HandleFunc("POST /api/sessions/{id}/checkout/cancel", checkoutHandler.Cancel)

	// Apply middleware in order: Recovery -> Logging -> CORS -> Credential
	var h http.Handler = mux
	h = middleware.Credential(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
