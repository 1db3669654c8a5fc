// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

// Package main is the entry point for the Parlor server.
//
// Parlor is a self-hosted social networking platform: accounts with
// optional privacy, profiles, posts with images, comments, likes, a
// follower graph, and direct messages with realtime delivery.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered via koanf (defaults, config.yaml, env vars)
//  2. Logging: zerolog, JSON by default
//  3. Database: PostgreSQL via pgx with schema migration
//  4. Auth: JWT manager and bcrypt password hashing
//  5. Realtime hub: websocket relay with per-user rooms
//  6. Uploads: local image storage
//  7. HTTP server: Chi-routed REST API under /api/v1
//
// The hub and the HTTP server run under a suture supervision tree and
// shut down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/parlor/internal/api"
	"github.com/tomtom215/parlor/internal/auth"
	"github.com/tomtom215/parlor/internal/authz"
	"github.com/tomtom215/parlor/internal/config"
	"github.com/tomtom215/parlor/internal/logging"
	"github.com/tomtom215/parlor/internal/store/postgres"
	"github.com/tomtom215/parlor/internal/supervisor"
	"github.com/tomtom215/parlor/internal/supervisor/services"
	"github.com/tomtom215/parlor/internal/uploads"
	"github.com/tomtom215/parlor/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Msg("parlor starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer st.Close()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize token manager")
	}
	authMW := auth.NewMiddleware(jwtManager)

	storage, err := uploads.NewStorage(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	hub := websocket.NewHub()
	authorizer := authz.New(st)

	handler := api.NewHandler(st, authorizer, hub, storage, jwtManager, authMW, cfg)

	wsLimiter := auth.NewRateLimiter(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
	defer wsLimiter.Stop()

	router := api.NewRouter(handler, authMW, api.NewChiMiddleware(&cfg.Security), wsLimiter)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddRealtimeService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, supervisor.DefaultTreeConfig().ShutdownTimeout))

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("parlor listening")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("supervisor tree exited")
		os.Exit(1)
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service missed shutdown timeout")
		}
	}

	logging.Info().Msg("parlor stopped")
}
