// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handler into a chi router.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler) *Router {
	return &Router{handler: handler, middleware: handler.mw}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(RequestLogging)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(RequestMetrics)

		r.Route("/cameras", func(r chi.Router) {
			r.Get("/", router.handler.Cameras)
			r.Post("/", router.handler.AddCamera)
			r.Delete("/{index}", router.handler.RemoveCamera)
			r.Get("/{index}/snapshot", router.handler.Snapshot)
		})
		r.Post("/signals/{action}", router.handler.Signal)
		r.Get("/events", router.handler.Events)
		r.Get("/ws", router.handler.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
