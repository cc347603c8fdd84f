package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/interfaces"
	"github.com/mkarneyeu/ratewatch/internal/models"
	"github.com/mkarneyeu/ratewatch/internal/session"
)

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iss":   "ratewatch-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister handles POST /api/auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if reason := common.CheckPasswordStrength(req.Password); reason != "" {
		WriteError(w, http.StatusBadRequest, reason)
		return
	}

	id, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, interfaces.ErrUserExists) {
			WriteError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		s.logger.Error().Err(err).Msg("Registration failed")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    id,
		"email": req.Email,
	})
}

// handleLogin handles POST /api/auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	ok, err := s.users.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Credential check failed")
		WriteError(w, http.StatusInternalServerError, "login temporarily unavailable")
		return
	}
	if !ok {
		WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("User lookup failed after verify")
		WriteError(w, http.StatusInternalServerError, "login temporarily unavailable")
		return
	}

	token, err := signJWT(user, &s.config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Token signing failed")
		WriteError(w, http.StatusInternalServerError, "login temporarily unavailable")
		return
	}

	// A fresh login lands the navigation machine on the metals view.
	state, _ := session.Next(session.StateLoggedOut, session.EventLoginSucceeded)
	s.setSessionState(user.ID, state)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// handleValidate handles POST /api/auth/validate. The bearer middleware has
// already rejected bad tokens; reaching here means the token is good.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	uc := requireUser(w, r)
	if uc == nil {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"user": map[string]interface{}{
			"id":    uc.UserID,
			"email": uc.Email,
		},
	})
}
