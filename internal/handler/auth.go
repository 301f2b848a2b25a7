// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/blog-go/internal/auth"
	"github.com/olegiv/blog-go/internal/middleware"
	"github.com/olegiv/blog-go/internal/render"
	"github.com/olegiv/blog-go/internal/session"
	"github.com/olegiv/blog-go/internal/store"
)

// AuthHandler handles the admin authentication routes.
type AuthHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	identity *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, identity *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		queries:  store.New(db),
		renderer: renderer,
		identity: identity,
	}
}

// authFormData is the view model for the login and register forms.
type authFormData struct {
	Error    string
	Username string
	Email    string
}

// LoginForm renders the login page. Already-authenticated admins go straight
// to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.CurrentUsername(r.Context(), h.identity) != "" {
		http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, "admin/login", render.TemplateData{Title: "Log in"})
}

// Login handles the login form submission. A failed lookup and a failed
// password check are indistinguishable to the client.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.queries.GetUserByNameOrEmail(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.loginFailed(w, r, username)
			return
		}
		logAndInternalError(w, "looking up user", "error", err)
		return
	}

	ok, err := auth.CheckPassword(password, user.Password)
	if err != nil || !ok {
		h.loginFailed(w, r, username)
		return
	}

	// Upgrade hashes stored with outdated parameters.
	if auth.NeedsRehash(user.Password) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), newHash, user.Username); err != nil {
				slog.Error("re-hashing password", "user_id", user.ID, "error", err)
			}
		}
	}

	if err := h.queries.TouchLastLogin(r.Context(), user.ID); err != nil {
		// A login without a freshness stamp is still a login.
		slog.Error("stamping last login", "user_id", user.ID, "error", err)
	}

	if err := session.Remember(r.Context(), h.identity, user.ID, user.Username); err != nil {
		logAndInternalError(w, "establishing identity", "error", err)
		return
	}

	http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, username string) {
	renderStatus(w, r, h.renderer, http.StatusUnauthorized, "admin/login", render.TemplateData{
		Title: "Log in",
		Data:  authFormData{Error: "Invalid username or password", Username: username},
	})
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "admin/register", render.TemplateData{Title: "Register"})
}

// Register creates a new account. Uniqueness of username and email is
// enforced by the insert itself, so two concurrent registrations of the same
// name cannot both succeed.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")

	hashed, err := auth.HashPassword(r.FormValue("password"))
	if err != nil {
		logAndInternalError(w, "hashing password", "error", err)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:   username,
		Email:      email,
		Password:   hashed,
		FirstName:  r.FormValue("first_name"),
		LastName:   r.FormValue("last_name"),
		IsStaff:    true,
		DateJoined: time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			renderStatus(w, r, h.renderer, http.StatusConflict, "admin/register", render.TemplateData{
				Title: "Register",
				Data: authFormData{
					Error:    "Username or email is already taken",
					Username: username,
					Email:    email,
				},
			})
			return
		}
		logAndInternalError(w, "creating user", "error", err)
		return
	}

	if err := session.Remember(r.Context(), h.identity, user.ID, user.Username); err != nil {
		logAndInternalError(w, "establishing identity", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectDashboard, "Welcome, "+user.Username)
}

// existRequest is the AJAX payload for the availability checks.
type existRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserExists reports whether a username is still available.
func (h *AuthHandler) UserExists(w http.ResponseWriter, r *http.Request) {
	var req existRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONBool(w, http.StatusBadRequest, false)
		return
	}
	h.checkAvailable(w, r, req.Username)
}

// EmailExists reports whether an email address is still available.
func (h *AuthHandler) EmailExists(w http.ResponseWriter, r *http.Request) {
	var req existRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONBool(w, http.StatusBadRequest, false)
		return
	}
	h.checkAvailable(w, r, req.Email)
}

func (h *AuthHandler) checkAvailable(w http.ResponseWriter, r *http.Request, nameOrEmail string) {
	_, err := h.queries.GetUserIDByNameOrEmail(r.Context(), nameOrEmail)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONBool(w, http.StatusOK, true)
	case err != nil:
		slog.Error("checking availability", "error", err)
		writeJSONBool(w, http.StatusInternalServerError, false)
	default:
		writeJSONBool(w, http.StatusOK, false)
	}
}

// Logout drops the identity and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Forget(r.Context(), h.identity); err != nil {
		slog.Error("destroying identity", "error", err)
	}
	http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
}

// resetPasswordData is the view model for the password change form.
type resetPasswordData struct {
	Error string
}

// ResetPasswordForm renders the password change page.
func (h *AuthHandler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "admin/reset_password", render.TemplateData{Title: "Change password"})
}

// ResetPassword changes the current admin's password. The new password must
// differ from the old one and the old one must verify against the stored
// hash; on success the identity is dropped and the admin must log in again.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	oldPassword := r.FormValue("old_password")
	newPassword := r.FormValue("new_password")
	username := middleware.Username(r)

	if oldPassword == newPassword {
		h.resetFailed(w, r, "New password must differ from the old one")
		return
	}

	user, err := h.queries.GetUserByNameOrEmail(r.Context(), username)
	if err != nil {
		logAndInternalError(w, "looking up user", "username", username, "error", err)
		return
	}

	ok, err := auth.CheckPassword(oldPassword, user.Password)
	if err != nil || !ok {
		h.resetFailed(w, r, "Old password is incorrect")
		return
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		logAndInternalError(w, "hashing password", "error", err)
		return
	}

	if err := h.queries.UpdateUserPassword(r.Context(), hashed, username); err != nil {
		logAndInternalError(w, "updating password", "error", err)
		return
	}

	if err := session.Forget(r.Context(), h.identity); err != nil {
		slog.Error("destroying identity", "error", err)
	}

	flashSuccess(w, r, h.renderer, redirectLogin, "Password changed, please log in again")
}

func (h *AuthHandler) resetFailed(w http.ResponseWriter, r *http.Request, message string) {
	renderStatus(w, r, h.renderer, http.StatusForbidden, "admin/reset_password", render.TemplateData{
		Title: "Change password",
		Data:  resetPasswordData{Error: message},
	})
}
