package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/cbodonnell/tankbot/pkg/api/handlers"
	"github.com/cbodonnell/tankbot/pkg/api/middleware"
	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/gorilla/mux"
)

// APIServer serves a read-only view of the running game for debugging.
type APIServer struct {
	server *http.Server
}

type NewAPIServerOptions struct {
	Addr string
	Game handlers.GameObserver
	// Repository is optional. Without it the /matches routes are not served.
	Repository handlers.MatchHistory
}

// NewAPIServer creates a new http.Server for handling debug requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	router := mux.NewRouter()
	router.Use(middleware.NewLoggingMiddleware(), middleware.NewCORSMiddleware())

	router.HandleFunc("/healthz", handlers.HandleHealth()).Methods(http.MethodGet)
	router.HandleFunc("/status", handlers.HandleStatus(opts.Game)).Methods(http.MethodGet)
	router.HandleFunc("/objects", handlers.HandleListObjects(opts.Game)).Methods(http.MethodGet)
	router.HandleFunc("/objects/{objectID}", handlers.HandleGetObject(opts.Game)).Methods(http.MethodGet)
	router.HandleFunc("/turn", handlers.HandleCurrentTurn(opts.Game)).Methods(http.MethodGet)
	if opts.Repository != nil {
		router.HandleFunc("/matches", handlers.HandleListMatches(opts.Repository)).Methods(http.MethodGet)
		router.HandleFunc("/matches/{matchID}", handlers.HandleGetMatch(opts.Repository)).Methods(http.MethodGet)
	}

	server := &http.Server{
		Addr:    opts.Addr,
		Handler: router,
	}
	return &APIServer{
		server: server,
	}
}

// Handler returns the router of the server.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the APIServer and blocks until it is stopped
func (s *APIServer) Start() {
	log.Info("Debug API server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("Debug API server closed")
			return
		}
		log.Error("Debug API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
