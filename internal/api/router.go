package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter creates the router and registers all handlers.
// authHandler is nil when Google sign-in is disabled.
func NewRouter(gateHandler *GateHandler, authHandler *AuthHandler) *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", HealthCheckHandler).Methods(http.MethodGet)

	if authHandler != nil {
		authHandler.RegisterRoutes(r)
	}
	gateHandler.RegisterRoutes(r)

	return r
}
