package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bingoreloaded/internal/config"
	localMiddleware "bingoreloaded/internal/middleware"
)

// RouterOptions allows customization of router setup for tests
type RouterOptions struct {
	DisableRateLimiting  bool
	DisableRequestLogger bool
	CustomMiddleware     []func(http.Handler) http.Handler
	// RateLimiter limits command routes. One is created from the config
	// when nil.
	RateLimiter *localMiddleware.RateLimiter
}

// SetupRouter creates the application router with all routes and middleware
func SetupRouter(h *Handler, cfg *config.ServerConfig, opts *RouterOptions) *chi.Mux {
	if opts == nil {
		opts = &RouterOptions{}
	}

	r := chi.NewRouter()

	if !opts.DisableRequestLogger {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(localMiddleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))
	r.Use(localMiddleware.SecurityHeaders())
	for _, mw := range opts.CustomMiddleware {
		r.Use(mw)
	}

	// Health check endpoints (no auth required)
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if h.ready != nil {
			if err := h.ready(r.Context()); err != nil {
				http.Error(w, "Storage not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// SSE streams stay open, so they skip the request timeout
	r.Get("/sessions/{id}/events", ValidateSSERequest(h.StreamSession))

	r.Group(func(r chi.Router) {
		if cfg.Server.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
		}

		r.Get("/sessions/{id}", h.GetSession)
		r.Get("/sessions/{id}/qr", h.JoinQR)
		r.Get("/stats/{participant}", h.PlayerStats)

		// Commands
		r.Group(func(r chi.Router) {
			if !opts.DisableRateLimiting {
				limiter := opts.RateLimiter
				if limiter == nil {
					limiter = localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst, cfg.Server.RateLimitIdle)
				}
				r.Use(limiter.Middleware())
			}

			r.Post("/sessions/{id}", h.CreateSession)
			r.Delete("/sessions/{id}", h.DestroySession)
			r.Post("/sessions/{id}/start", h.StartGame)
			r.Post("/sessions/{id}/end", h.EndGame)
			r.Post("/sessions/{id}/settings/{key}", h.UpdateSetting)
			r.Post("/sessions/{id}/participants", h.JoinSession)
			r.Delete("/sessions/{id}/participants/{pid}", h.LeaveSession)
			r.Post("/sessions/{id}/team", h.SetTeam)
			r.Post("/sessions/{id}/presets/{name}/save", h.SavePreset)
			r.Post("/sessions/{id}/presets/{name}/load", h.LoadPreset)
			r.Post("/sessions/{id}/trigger", h.Trigger)
			r.Post("/sessions/{id}/slots/{index}", h.CompleteSlot)
		})
	})

	return r
}
