package stock

import (
	"context"
	"errors"
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

// PickingRoutes mounts the picking endpoints.
func (h *Handler) PickingRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/validate", h.Validate)
	r.Post("/{id}/cancel", h.Cancel)
}

// MoveRoutes mounts the line-level read model.
func (h *Handler) MoveRoutes(r chi.Router) {
	r.Get("/", h.ListMoves)
	r.Get("/{id}", h.GetMove)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common := shared.ParseListFilters(r)
	filters := ListFilters{
		Page:   common.Page,
		Limit:  common.Limit,
		Search: common.Search,
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("operation_type_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.OperationTypeID = &parsed
		}
	}
	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list pickings failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       list,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid picking id")
		return
	}
	picking, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, picking)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	var actor *shared.Actor
	if a, ok := shared.ActorFromContext(r.Context()); ok {
		actor = &a
	}
	picking, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		h.logger.Error("create picking failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, picking)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid picking id")
		return
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	picking, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update picking failed", slog.Any("error", err), slog.Int64("id", id))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, picking)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid picking id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.service.Confirm)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.service.Cancel)
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.service.Validate)
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (Picking, error)) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid picking id")
		return
	}
	picking, err := fn(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, picking)
}

func (h *Handler) ListMoves(w http.ResponseWriter, r *http.Request) {
	common := shared.ParseListFilters(r)
	var pickingID, productID *int64
	if raw := r.URL.Query().Get("picking_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			pickingID = &parsed
		}
	}
	if raw := r.URL.Query().Get("product_id"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			productID = &parsed
		}
	}
	moves, total, err := h.service.ListMoves(r.Context(), pickingID, productID, common.Limit, common.Offset())
	if err != nil {
		h.logger.Error("list stock moves failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       moves,
		"pagination": shared.NewPagination(common.Page, common.Limit, total),
	})
}

func (h *Handler) GetMove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid stock move id")
		return
	}
	move, err := h.service.GetMove(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, move)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var insufficient *InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		httpx.JSON(w, http.StatusBadRequest, NewInsufficientStockPayload(insufficient))
	case errors.Is(err, ErrAlreadyDone),
		errors.Is(err, ErrNotEditable),
		errors.Is(err, ErrNotConfirmable),
		errors.Is(err, ErrNotCancellable),
		errors.Is(err, ErrNotDraft):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrReferenceConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
