package server

import (
	"net/http"

	"github.com/mkarneyeu/ratewatch/internal/session"
)

// handleSession handles GET and POST /api/session. GET returns the current
// navigation state; POST applies an event to the per-user state machine.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	if r.Method == http.MethodGet {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"state": s.sessionState(uc.UserID),
		})
		return
	}

	var req struct {
		Event session.Event `json:"event"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	current := s.sessionState(uc.UserID)
	next, err := session.Next(current, req.Event)
	if err != nil {
		WriteError(w, http.StatusConflict, err.Error())
		return
	}
	s.setSessionState(uc.UserID, next)

	s.logger.Debug().
		Int64("user_id", uc.UserID).
		Str("event", string(req.Event)).
		Str("state", string(next)).
		Msg("Session transition")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state": next,
	})
}
