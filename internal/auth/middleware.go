// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/parlor/internal/logging"
	"github.com/tomtom215/parlor/internal/models"
)

type contextKey string

// IdentityContextKey is the request context key holding the *Identity.
const IdentityContextKey contextKey = "identity"

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID       int64
	Username string
}

// IdentityFromContext returns the authenticated identity, or nil for an
// anonymous request.
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(IdentityContextKey).(*Identity); ok {
		return id
	}
	return nil
}

// Middleware provides the authentication middleware.
type Middleware struct {
	jwtManager *JWTManager
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{jwtManager: jwtManager}
}

// Authenticate enforces a valid token and attaches the identity.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.identityFromRequest(r)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAuthenticate attaches the identity when a valid token is
// present and proceeds anonymously otherwise. Endpoints readable without
// login use it so the visibility rules can still recognize followers.
func (m *Middleware) OptionalAuthenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.identityFromRequest(r)
		if err != nil {
			next(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// ValidateTokenString validates a raw token and returns the identity.
// The websocket upgrade path uses this directly since browsers cannot
// set headers on websocket requests.
func (m *Middleware) ValidateTokenString(token string) (*Identity, error) {
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: claims.UserID, Username: claims.Username}, nil
}

func (m *Middleware) identityFromRequest(r *http.Request) (*Identity, error) {
	token, err := extractToken(r)
	if err != nil {
		return nil, err
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("token validation failed")
		return nil, fmt.Errorf("unauthorized: invalid token")
	}
	return &Identity{ID: claims.UserID, Username: claims.Username}, nil
}

// extractToken reads the token from the Authorization header or, failing
// that, the "token" cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", fmt.Errorf("unauthorized: missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("unauthorized: invalid authorization header")
	}
	return parts[1], nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // nothing to do if the client is gone
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}
