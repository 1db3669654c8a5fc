// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/parlor/internal/auth"
	"github.com/tomtom215/parlor/internal/authz"
	"github.com/tomtom215/parlor/internal/config"
	"github.com/tomtom215/parlor/internal/logging"
	"github.com/tomtom215/parlor/internal/models"
	"github.com/tomtom215/parlor/internal/store"
	"github.com/tomtom215/parlor/internal/store/inmemory"
	"github.com/tomtom215/parlor/internal/uploads"
	"github.com/tomtom215/parlor/internal/websocket"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

// testEnv bundles a full API stack on the in-memory store. Rate limiting
// is disabled so tests can hammer endpoints.
type testEnv struct {
	store   *inmemory.Store
	handler http.Handler
	jwt     *auth.JWTManager
	hub     *websocket.Hub
	cfg     *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:  "test-secret-0123456789",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
		Uploads: config.UploadsConfig{Dir: t.TempDir(), MaxBytes: 1 << 20},
		API:     config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}

	st := inmemory.New()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	require.NoError(t, err)
	authMW := auth.NewMiddleware(jwtManager)

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.RunWithContext(ctx) //nolint:errcheck
	t.Cleanup(cancel)

	storage, err := uploads.NewStorage(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	require.NoError(t, err)

	handler := NewHandler(st, authz.New(st), hub, storage, jwtManager, authMW, cfg)
	wsLimiter := auth.NewRateLimiter(1000, time.Minute)
	t.Cleanup(wsLimiter.Stop)

	router := NewRouter(handler, authMW, NewChiMiddleware(&cfg.Security), wsLimiter)

	return &testEnv{
		store:   st,
		handler: router.SetupChi(),
		jwt:     jwtManager,
		hub:     hub,
		cfg:     cfg,
	}
}

// register creates an account through the API and returns the token and
// the user's id.
func (env *testEnv) register(t *testing.T, username string) (token string, userID int64) {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

// setPrivate flips the privacy flag directly on the store.
func (env *testEnv) setPrivate(t *testing.T, userID int64, private bool) {
	t.Helper()
	_, err := env.store.UpdateProfile(context.Background(), userID, store.UpdateProfileParams{
		IsPrivate: &private,
	})
	require.NoError(t, err)
}

// do performs a JSON request against the router.
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded response body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// errorMessage extracts the error envelope message.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	decode(t, rec, &resp)
	return resp.Error
}
