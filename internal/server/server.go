// Package server exposes the HTTP API: recommendation generation,
// portfolio persistence, Pro suggestion proxying, and the billing
// webhook.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/portfolix/portfolix/internal/config"
	"github.com/portfolix/portfolix/internal/quota"
	"github.com/portfolix/portfolix/internal/store"
	"github.com/portfolix/portfolix/internal/suggest"
	"github.com/portfolix/portfolix/pkg/captcha"
	"github.com/portfolix/portfolix/pkg/paystack"
)

// Server wires handlers to their dependencies. Suggest, payments, and
// captcha are optional; nil disables the corresponding surface.
type Server struct {
	cfg      *config.Config
	store    store.Store
	gate     *quota.Gate
	suggest  *suggest.Service
	payments paystack.Client
	captcha  captcha.Verifier
}

// New creates a Server.
func New(cfg *config.Config, st store.Store, gate *quota.Gate, svc *suggest.Service, payments paystack.Client, verifier captcha.Verifier) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		gate:     gate,
		suggest:  svc,
		payments: payments,
		captcha:  verifier,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID", "X-Captcha-Token"},
		MaxAge:         300,
	}))
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Post("/webhooks/paystack", s.handlePaystackWebhook)

	r.Route("/v1", func(r chi.Router) {
		r.Use(requireUser)
		r.Use(rateLimiter(s.cfg.Server.RateRPS, s.cfg.Server.RateBurst))

		r.Post("/recommendation", s.handleRecommendation)
		r.Get("/recommendation/alternatives", s.handleAlternatives)

		r.Route("/portfolios", func(r chi.Router) {
			r.Post("/", s.handleCreatePortfolio)
			r.Get("/", s.handleListPortfolios)
			r.Get("/{id}", s.handleGetPortfolio)
			r.Delete("/{id}", s.handleDeletePortfolio)
			r.Patch("/{id}/amount", s.handleUpdateAmount)
		})

		r.Route("/pro", func(r chi.Router) {
			r.Post("/suggestions", s.handleProSuggestions)
			r.Get("/alerts", s.handleProAlerts)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
