package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	apierrors "whatsflow/internal/errors"
	"whatsflow/internal/middleware"
)

// CookieSettings controls the admin session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthHandler handles admin login, logout and account settings.
type AuthHandler struct {
	auth         AuthService
	cookie       CookieSettings
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth AuthService, cookie CookieSettings, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		cookie:       cookie,
		logger:       logger.With(slog.String("handler", "auth")),
		errorHandler: errorHandler,
	}
}

// LoginRequest is the admin login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ChangeEmailRequest is the change email form.
type ChangeEmailRequest struct {
	NewEmail        string `json:"new_email" form:"new_email" validate:"required,email"`
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
}

// ChangePasswordRequest is the change password form.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, r, session)
}

// Logout handles POST /api/admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r, h.cookie.Name); token != "" {
		h.auth.Logout(r.Context(), token)
	}
	h.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ChangeEmail handles POST /api/admin/settings/email. All sessions of the
// admin end, so the client must log in again.
func (h *AuthHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
		return
	}

	var req ChangeEmailRequest
	if err := bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := h.auth.ChangeEmail(r.Context(), user, req.NewEmail, req.CurrentPassword); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.clearCookie(w)
	render.JSON(w, r, map[string]string{
		"message": "Email updated successfully. Please log in with your new email.",
	})
}

// ChangePassword handles POST /api/admin/settings/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.clearCookie(w)
	render.JSON(w, r, map[string]string{
		"message": "Password updated successfully. Please log in with your new password.",
	})
}
