package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/upn-qr/pkg/response"
)

// NewRouter wires the HTTP routes and middleware
func NewRouter(upnHandler *UPNHandler, healthHandler *HealthHandler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(response.RequestIDMiddleware)
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/upn-qr", upnHandler.Generate).Methods("POST", "OPTIONS")
	api.HandleFunc("/upn-qr/validate", upnHandler.Validate).Methods("POST", "OPTIONS")
	api.HandleFunc("/upn-qr/payload", upnHandler.Payload).Methods("POST", "OPTIONS")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found")
	})

	return router
}
