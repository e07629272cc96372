package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockmaster-erp/stockmaster/internal/auth"
	"github.com/stockmaster-erp/stockmaster/internal/dashboard"
	"github.com/stockmaster-erp/stockmaster/internal/history"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/categories"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/locations"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/operationtypes"
	"github.com/stockmaster-erp/stockmaster/internal/masterdata/products"
	"github.com/stockmaster-erp/stockmaster/internal/observability"
	"github.com/stockmaster-erp/stockmaster/internal/quants"
	"github.com/stockmaster-erp/stockmaster/internal/settings"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
	"github.com/stockmaster-erp/stockmaster/internal/stock"
	"github.com/stockmaster-erp/stockmaster/internal/tasks"
	"github.com/stockmaster-erp/stockmaster/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	Tokens  *shared.TokenManager
	Pool    *pgxpool.Pool

	AuthHandler          *auth.Handler
	CategoryHandler      *categories.Handler
	ProductHandler       *products.Handler
	LocationHandler      *locations.Handler
	OperationTypeHandler *operationtypes.Handler
	TaskHandler          *tasks.Handler
	StockHandler         *stock.Handler
	QuantHandler         *quants.Handler
	HistoryHandler       *history.Handler
	SettingsHandler      *settings.Handler
	DashboardHandler     *dashboard.Handler
	JobsHandler          *jobs.Handler
}

// NewRouter assembles the HTTP surface.
func NewRouter(p RouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: p.Logger, Config: p.Config, Metrics: p.Metrics}) {
		r.Use(mw)
	}

	r.Get("/healthz", healthCheck(p.Pool))
	if p.Metrics != nil {
		r.Handle("/metrics", p.Metrics.Handler())
	}
	if p.JobsHandler != nil {
		r.Route("/jobs", p.JobsHandler.MountRoutes)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(AuthRateLimit())
			r.Route("/auth", p.AuthHandler.Routes)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(p.Tokens, p.Logger))
			r.Route("/categories", p.CategoryHandler.Routes)
			r.Route("/products", p.ProductHandler.Routes)
			r.Route("/locations", p.LocationHandler.Routes)
			r.Route("/operation-types", p.OperationTypeHandler.Routes)
			r.Route("/tasks", p.TaskHandler.Routes)
			r.Route("/pickings", p.StockHandler.PickingRoutes)
			r.Route("/stock-moves", p.StockHandler.MoveRoutes)
			r.Route("/stock-quants", p.QuantHandler.Routes)
			r.Route("/move-history", p.HistoryHandler.Routes)
			r.Route("/settings", p.SettingsHandler.Routes)
			r.Route("/dashboard", p.DashboardHandler.Routes)
		})
	})

	return r
}

func healthCheck(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(ctx); err != nil {
				http.Error(w, `{"status":"degraded"}`, http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
