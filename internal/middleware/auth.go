// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/blog-go/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for identity data.
const (
	ContextKeyUsername ContextKey = "username"
	ContextKeyUserID   ContextKey = "user_id"
)

// RequireIdentity creates middleware that requires an authenticated admin
// identity. Requests without a username in the identity session are redirected
// to the login page. On success the username and user id are added to the
// request context.
func RequireIdentity(identity *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := identity.GetString(r.Context(), session.KeyUsername)
			if username == "" {
				http.Redirect(w, r, "/admin/login/", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUsername, username)
			ctx = context.WithValue(ctx, ContextKeyUserID,
				identity.GetInt64(ctx, session.KeyUserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Username retrieves the authenticated username from the request context.
// Returns the empty string if the request did not pass RequireIdentity.
func Username(r *http.Request) string {
	username, _ := r.Context().Value(ContextKeyUsername).(string)
	return username
}

// UserID retrieves the authenticated user id from the request context.
// Returns 0 if the request did not pass RequireIdentity.
func UserID(r *http.Request) int64 {
	id, _ := r.Context().Value(ContextKeyUserID).(int64)
	return id
}
