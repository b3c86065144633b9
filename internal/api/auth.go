package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/RaviGowdaS/InventoryManagement/internal/auth"
	"github.com/RaviGowdaS/InventoryManagement/internal/metrics"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Identity *auth.Identity
	Metrics  *metrics.Metrics
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.Identity.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Metrics.Event("user_registered")
	slog.Info("user registered", "user", user.Email)
	jsonResponse(w, http.StatusCreated, "User registered successfully", authResponse{User: user, Token: token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
			h.Metrics.Event("login_failed")
		}
		writeError(w, r, err)
		return
	}

	h.Metrics.Event("user_logged_in")
	slog.Info("user logged in", "user", user.Email, "role", user.Role)
	jsonResponse(w, http.StatusOK, "Login successful", authResponse{User: user, Token: token})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Identity.Profile(r.Context(), GetClaims(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, "", map[string]any{"user": user})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if err := h.Identity.Logout(r.Context(), claims); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged out", "user", claims.Email)
	jsonResponse(w, http.StatusOK, "Logged out successfully", nil)
}
