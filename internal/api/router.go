// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/parlor/internal/auth"
	"github.com/tomtom215/parlor/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so auth and metrics middleware can be
// used with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
	wsLimiter     *auth.RateLimiter
}

// NewRouter creates the router. wsLimiter guards the websocket upgrade
// path, which sits outside the chi rate-limited groups.
func NewRouter(handler *Handler, authMW *auth.Middleware, chiMW *ChiMiddleware, wsLimiter *auth.RateLimiter) *Router {
	return &Router{
		handler:       handler,
		middleware:    authMW,
		chiMiddleware: chiMW,
		wsLimiter:     wsLimiter,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints, permissive rate limit for monitoring.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Authentication endpoints, strict rate limits against brute force.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/register", router.handler.Register)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
	})

	// Profile and follow-graph endpoints.
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(router.middleware.Authenticate))

			r.Get("/me", router.handler.Me)
			r.Put("/me", router.handler.UpdateMe)
			r.Post("/follow/{userID}", router.handler.ToggleFollow)
			r.Get("/follow-status/{userID}", router.handler.FollowStatus)
		})

		// Readable without login; the optional identity lets the
		// visibility rules recognize followers.
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(router.middleware.OptionalAuthenticate))

			r.Get("/search", router.handler.SearchUsers)
			r.Get("/{username}", router.handler.UserProfile)
		})
	})

	// Posts, comments, and likes.
	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(router.middleware.OptionalAuthenticate))

			r.Get("/", router.handler.Feed)
			r.Get("/user/{username}", router.handler.PostsByUser)
			r.Get("/user/{username}/likes", router.handler.PostsLikedBy)
			r.Get("/{id}", router.handler.Post)
			r.Get("/{id}/comments", router.handler.Comments)
		})

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(router.middleware.Authenticate))

			r.Post("/", router.handler.CreatePost)
			r.Post("/{id}/comments", router.handler.CreateComment)
			r.Post("/{id}/like", router.handler.ToggleLike)
			r.Get("/{id}/like-status", router.handler.LikeStatus)
		})
	})

	// Direct messages, all authenticated.
	r.Route("/api/v1/messages", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		r.Post("/", router.handler.SendMessage)
		r.Get("/conversations", router.handler.Conversations)
		r.Get("/{userID}", router.handler.Thread)
	})

	// Image uploads.
	r.Route("/api/v1/uploads", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWrite())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		r.Post("/", router.handler.Upload)
	})

	// Static serving of stored images.
	r.Get("/uploads/{file}", router.handler.ServeUpload)

	// Realtime relay. Authenticated inside the handler via ?token=.
	r.Get("/ws", router.wsLimiter.Middleware(router.handler.WebSocket))

	// Observability.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
