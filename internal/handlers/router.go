package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter mounts the API. ws may be nil to disable live updates.
func NewRouter(h *Handler, ws *WSHandler, opts RouterOptions, log *logger.Entry) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(log.WithComponent("http")))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if ws != nil {
		r.Get("/ws", ws.HandleWebSocket)
		r.Get("/ws/metrics", ws.HandleMetrics)
	}

	r.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(opts.RequestTimeout))
		}

		r.Get("/health", h.HealthCheck)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/leagues", h.GetLeagues)
			r.Get("/matches", h.GetMatches)
			r.Get("/matches/{matchID}", h.GetMatch)
			r.Get("/rounds", h.GetRounds)
			r.Get("/multis", h.GetMultis)
		})
	})

	return r
}
