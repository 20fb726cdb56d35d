package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"commentmod/internal/handler"
	"commentmod/internal/httputil"
	authmw "commentmod/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler       *handler.AuthHandler
	CommentHandler    *handler.CommentHandler
	ModerationHandler *handler.ModerationHandler
	JWTSecret         string
	SubmitRateRPS     float64
	SubmitRateBurst   int
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
		})

		r.Route("/comments", func(r chi.Router) {
			// Public routes - no authentication required
			r.With(authmw.RateLimit(cfg.SubmitRateRPS, cfg.SubmitRateBurst)).
				Post("/", cfg.CommentHandler.Submit)
			r.Get("/post/{postId}", cfg.CommentHandler.GetByPost)
			r.Get("/post/{postId}/all", cfg.CommentHandler.GetAllByPost)
			r.Get("/post/{postId}/count", cfg.CommentHandler.GetCountByPost)

			// Moderation console - requires a moderator token
			r.Group(func(r chi.Router) {
				r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

				r.Post("/review", cfg.ModerationHandler.Review)
				r.Post("/batch-review", cfg.ModerationHandler.BatchReview)
				r.Put("/{id}/approve", cfg.ModerationHandler.Approve)
				r.Delete("/batch", cfg.ModerationHandler.BatchDelete)
				r.Delete("/{id}", cfg.ModerationHandler.Delete)

				r.Get("/pending", cfg.ModerationHandler.GetPending)
				r.Get("/status/{status}", cfg.ModerationHandler.GetByStatus)
				r.Get("/search", cfg.ModerationHandler.Search)
				r.Get("/high-risk", cfg.ModerationHandler.GetHighRisk)
				r.Get("/date-range", cfg.ModerationHandler.GetByDateRange)
				r.Get("/statistics", cfg.ModerationHandler.GetStatistics)
				r.Get("/admin/all", cfg.ModerationHandler.GetAll)
				r.Get("/{id}", cfg.ModerationHandler.GetByID)
			})
		})
	})

	return r
}
