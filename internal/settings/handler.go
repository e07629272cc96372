package settings

import (
	"log/slog"
	"net/http"

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

// Routes mounts the warehouse settings endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

type settingsRequest struct {
	LowStockThreshold         int    `json:"low_stock_threshold"`
	DefaultReceiptLocation    *int64 `json:"default_receipt_location_id"`
	DefaultDeliveryLocation   *int64 `json:"default_delivery_location_id"`
	DefaultAdjustmentLocation *int64 `json:"default_adjustment_location_id"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("load settings failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	update := Settings{
		LowStockThreshold:         req.LowStockThreshold,
		DefaultReceiptLocation:    req.DefaultReceiptLocation,
		DefaultDeliveryLocation:   req.DefaultDeliveryLocation,
		DefaultAdjustmentLocation: req.DefaultAdjustmentLocation,
	}
	if actor, ok := shared.ActorFromContext(r.Context()); ok {
		update.UpdatedBy = &actor.ID
	}
	settings, err := h.service.Update(r.Context(), update)
	if err != nil {
		h.logger.Error("update settings failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}
