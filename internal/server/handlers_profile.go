package server

import (
	"errors"
	"net/http"

	"github.com/mkarneyeu/ratewatch/internal/interfaces"
	"github.com/mkarneyeu/ratewatch/internal/session"
)

// handleProfile handles GET and DELETE /api/profile. DELETE removes the
// account and ends the session.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodDelete) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	if r.Method == http.MethodGet {
		user, err := s.users.GetByID(r.Context(), uc.UserID)
		if err != nil {
			if errors.Is(err, interfaces.ErrUserNotFound) {
				WriteError(w, http.StatusNotFound, "account no longer exists")
				return
			}
			s.logger.Error().Err(err).Int64("user_id", uc.UserID).Msg("Profile lookup failed")
			WriteError(w, http.StatusInternalServerError, "profile unavailable")
			return
		}

		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"id":         user.ID,
			"email":      user.Email,
			"created_at": user.CreatedAt,
			"state":      s.sessionState(uc.UserID),
		})
		return
	}

	if err := s.users.Delete(r.Context(), uc.UserID); err != nil {
		if errors.Is(err, interfaces.ErrUserNotFound) {
			WriteError(w, http.StatusNotFound, "account no longer exists")
			return
		}
		s.logger.Error().Err(err).Int64("user_id", uc.UserID).Msg("Account deletion failed")
		WriteError(w, http.StatusInternalServerError, "account deletion failed")
		return
	}

	s.setSessionState(uc.UserID, session.StateLoggedOut)
	s.logger.Info().Int64("user_id", uc.UserID).Msg("Account deleted via profile")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}
