package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/interfaces"
	"github.com/mkarneyeu/ratewatch/internal/session"
)

// Server wraps the HTTP server and its service dependencies.
type Server struct {
	config  *common.Config
	logger  *common.Logger
	users   interfaces.UserStore
	rates   interfaces.RatesService
	reports interfaces.ReportService
	server  *http.Server

	// sessions tracks the navigation state machine per authenticated user.
	sessionsMu sync.RWMutex
	sessions   map[int64]session.State
}

// NewServer creates the REST API server over the given services.
func NewServer(config *common.Config, logger *common.Logger, users interfaces.UserStore, rates interfaces.RatesService, reports interfaces.ReportService) *Server {
	s := &Server{
		config:   config,
		logger:   logger,
		users:    users,
		rates:    rates,
		reports:  reports,
		sessions: make(map[int64]session.State),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, logger, config, users)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// sessionState returns the tracked navigation state for a user, defaulting
// to the post-login landing view.
func (s *Server) sessionState(userID int64) session.State {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	if state, ok := s.sessions[userID]; ok {
		return state
	}
	return session.StateMetalView
}

func (s *Server) setSessionState(userID int64, state session.State) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	if state == session.StateLoggedOut {
		delete(s.sessions, userID)
		return
	}
	s.sessions[userID] = state
}
