package history

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

type Handler struct {
	logger *slog.Logger
	repo   Repository
}

func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// Routes mounts the move history endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{
		ListFilters: shared.ParseListFilters(r),
		Action:      r.URL.Query().Get("action"),
	}
	if raw := r.URL.Query().Get("picking_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.PickingID = &parsed
		}
	}
	if raw := r.URL.Query().Get("product_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.ProductID = &parsed
		}
	}
	list, total, err := h.repo.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list move history failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}
