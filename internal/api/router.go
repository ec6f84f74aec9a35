package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Seeds/internal/config"
	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/metrics"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

// Rescorer refreshes the cached scores of a board's seeds in the background.
type Rescorer interface {
	Enqueue(boardID uuid.UUID)
}

func NewRouter(s store.Store, h hermes.Client, rs Rescorer, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware(m))
	r.Use(RateLimitMiddleware(120))

	engine := scoring.NewEngine(cfg.Scoring.RatingScale)
	defaults := rankDefaults{
		strategy:  cfg.RankingStrategy(),
		direction: cfg.RankingDirection(),
		locale:    cfg.Locale(),
	}

	boards := NewBoardsHandler(s, h, logger)
	weights := NewWeightsHandler(s, h, rs, m, logger)
	seeds := NewSeedsHandler(s, h, rs, logger)
	ranking := NewRankingHandler(s, engine, defaults, m)
	explain := NewExplainHandler(s, engine)
	comments := NewCommentsHandler(s, h)
	admin := NewAdminHandler(s, h, rs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(UserIDMiddleware)

		r.Post("/boards", boards.Create)
		r.Get("/boards", boards.List)
		r.Get("/boards/{id}", boards.Get)
		r.Patch("/boards/{id}", boards.Update)

		r.Get("/boards/{id}/weights", weights.Get)
		r.Put("/boards/{id}/weights/{dimension}", weights.Set)

		r.Post("/boards/{id}/seeds", seeds.Create)
		r.Get("/boards/{id}/seeds", seeds.List)
		r.Get("/boards/{id}/ranking", ranking.Rank)

		r.Get("/seeds/{id}", seeds.Get)
		r.Patch("/seeds/{id}", seeds.Update)
		r.Delete("/seeds/{id}", seeds.Delete)
		r.Get("/seeds/{id}/score", explain.Explain)

		r.Post("/seeds/{id}/comments", comments.Create)
		r.Get("/seeds/{id}/comments", comments.List)
		r.Delete("/comments/{id}", comments.Delete)

		r.Post("/roi", ROI)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Delete("/boards/{id}", boards.Delete)
			r.Post("/seeds/{id}/approve", admin.Approve)
			r.Post("/seeds/{id}/reject", admin.Reject)
			r.Post("/boards/{id}/rescore", admin.Rescore)
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
