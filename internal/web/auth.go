package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/RaviGowdaS/InventoryManagement/internal/auth"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/store"
)

type authForm struct {
	PageData
	Name  string
	Email string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &authForm{PageData: PageData{Title: "Login"}})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	form := &authForm{PageData: PageData{Title: "Login"}, Email: r.FormValue("email")}

	if !s.Limiter.Allow(s.Limiter.ClientIP(r)) {
		form.Error = "Too many attempts, please try again later."
		s.Templates.RenderStatus(w, http.StatusTooManyRequests, "login.html", form)
		return
	}

	user, token, err := s.Identity.Login(r.Context(), form.Email, r.FormValue("password"))
	if err != nil {
		var verr *model.ValidationError
		switch {
		case errors.As(err, &verr):
			form.Error = verr.Message
		case errors.Is(err, auth.ErrInvalidCredentials):
			slog.Warn("login failed", "email", form.Email, "remote", r.RemoteAddr)
			s.Metrics.Event("login_failed")
			form.Error = "Invalid email or password."
		default:
			slog.Error("login error", "error", err)
			form.Error = "Login failed, please try again."
		}
		s.Templates.RenderStatus(w, http.StatusUnauthorized, "login.html", form)
		return
	}

	s.Metrics.Event("user_logged_in")
	slog.Info("user logged in", "user", user.Email, "role", user.Role)
	setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "register.html", &authForm{PageData: PageData{Title: "Register"}})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	form := &authForm{
		PageData: PageData{Title: "Register"},
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
	}

	if !s.Limiter.Allow(s.Limiter.ClientIP(r)) {
		form.Error = "Too many attempts, please try again later."
		s.Templates.RenderStatus(w, http.StatusTooManyRequests, "register.html", form)
		return
	}

	if r.FormValue("password") != r.FormValue("confirm") {
		form.Error = "Passwords do not match."
		s.Templates.RenderStatus(w, http.StatusBadRequest, "register.html", form)
		return
	}

	user, token, err := s.Identity.Register(r.Context(), form.Name, form.Email, r.FormValue("password"))
	if err != nil {
		var verr *model.ValidationError
		status := http.StatusBadRequest
		switch {
		case errors.As(err, &verr):
			form.Error = verr.Message
		case errors.Is(err, store.ErrEmailTaken):
			status = http.StatusConflict
			form.Error = "That email is already registered."
		default:
			slog.Error("registration error", "error", err)
			status = http.StatusInternalServerError
			form.Error = "Registration failed, please try again."
		}
		s.Templates.RenderStatus(w, status, "register.html", form)
		return
	}

	s.Metrics.Event("user_registered")
	slog.Info("user registered", "user", user.Email)
	setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The token is revoked when it is still valid.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		if claims, err := s.Identity.Authenticate(r.Context(), cookie.Value); err == nil {
			if err := s.Identity.Logout(r.Context(), claims); err != nil {
				slog.Error("failed to revoke token", "error", err)
			} else {
				slog.Info("user logged out", "user", claims.Email)
			}
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
