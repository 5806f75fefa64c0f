// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/aidhub/internal/middleware"
	"github.com/tomtom215/aidhub/internal/models"
)

// Router sets up HTTP routes using Chi.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil middleware uses defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// Setup returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", router.handler.Health)

		r.Get("/recipients", router.handler.Recipients)
		r.Post("/add_recipient", router.handler.AddRecipient)
		r.Post("/donate", router.handler.Donate)

		r.Get("/history", router.handler.History)
		r.Get("/summary_stats", router.handler.SummaryStats)
		r.Get("/trending", router.handler.Trending)
	})

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusNotFound, &models.APIError{Error: "Not found", Code: "NOT_FOUND"})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusMethodNotAllowed, &models.APIError{
		Error: "Method not allowed",
		Code:  "METHOD_NOT_ALLOWED",
	})
}
