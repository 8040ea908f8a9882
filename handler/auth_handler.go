package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"planner-api/common"
	"planner-api/logger"
	"planner-api/model"
	"planner-api/service"
)

// RefreshTokenHeader echoes the refresh token next to the response body for
// clients that prefer header-based storage.
const RefreshTokenHeader = "X-Refresh-Token"

// IAuthService defines the session operations the auth endpoints need.
type IAuthService interface {
	Login(ctx context.Context, email, password string) (*service.TokenPair, error)
	Refresh(ctx context.Context, rawToken string) (*service.TokenPair, error)
	Logout(ctx context.Context, rawToken string) error
}

type AuthHandler struct {
	service IAuthService
}

func NewAuthHandler(service IAuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login exchanges an email/password pair for an access+refresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not complete login", err)
	}

	logger.Log.Info("Login request succeeded")
	writeTokenPair(w, pair)
	return nil
}

// Refresh rotates a refresh token into a fresh token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh session", err)
	}

	writeTokenPair(w, pair)
	return nil
}

// Logout revokes the submitted refresh token. It is idempotent: unknown or
// already-revoked tokens still yield 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not complete logout", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func writeTokenPair(w http.ResponseWriter, pair *service.TokenPair) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(RefreshTokenHeader, pair.RefreshToken)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
}
