package quants

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes mounts the stock quant endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/low-stock", h.LowStock)
	r.Get("/out-of-stock", h.OutOfStock)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{ListFilters: shared.ParseListFilters(r)}
	if raw := r.URL.Query().Get("product_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.ProductID = &parsed
		}
	}
	if raw := r.URL.Query().Get("location_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.LocationID = &parsed
		}
	}
	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list stock quants failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.LowStock(r.Context())
	if err != nil {
		h.logger.Error("low stock listing failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": list})
}

func (h *Handler) OutOfStock(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.OutOfStock(r.Context())
	if err != nil {
		h.logger.Error("out of stock listing failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": list})
}
