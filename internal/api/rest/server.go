// Package rest exposes the persisted datasets over a small read-only HTTP
// API so the tables can be consumed without touching the data directory.
package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ibl-data/courtsync/internal/config"
)

// Server represents the REST API server.
type Server struct {
	server  *http.Server
	handler *Handler
}

// NewServer creates the REST API server over the configured data root.
func NewServer(cfg *config.Config, log *logrus.Logger) *Server {
	handler := NewHandler(cfg)

	router := mux.NewRouter()
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log))

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/averages/players", handler.GetPlayerAverages).Methods("GET")
	api.HandleFunc("/averages/teams", handler.GetTeamAverages).Methods("GET")
	api.HandleFunc("/averages/opponents", handler.GetOpponentAverages).Methods("GET")
	api.HandleFunc("/schedule", handler.GetSchedule).Methods("GET")
	api.HandleFunc("/status", handler.GetStatus).Methods("GET")

	return &Server{
		handler: handler,
		server: &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: router,
		},
	}
}

// Start starts the REST API server and blocks until it stops.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
