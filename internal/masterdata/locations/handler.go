package locations

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

// Routes mounts the location endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/children", h.Children)
	r.Get("/{id}/stock-levels", h.StockLevels)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type locationRequest struct {
	Name      string  `json:"name"`
	ParentID  *int64  `json:"parent_id"`
	Barcode   *string `json:"barcode"`
	UsageType string  `json:"usage_type"`
	IsActive  *bool   `json:"is_active"`
}

func (req locationRequest) toLocation() Location {
	usage := UsageType(req.UsageType)
	if req.UsageType == "" {
		usage = UsageInternal
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return Location{
		Name:      req.Name,
		ParentID:  req.ParentID,
		Barcode:   req.Barcode,
		UsageType: usage,
		IsActive:  active,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{
		ListFilters: shared.ParseListFilters(r),
		UsageType:   r.URL.Query().Get("usage_type"),
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filters.Active = &active
	}
	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list locations failed", slog.Any("error", err))
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
		httpx.Error(w, http.StatusBadRequest, "invalid location id")
		return
	}
	location, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, location)
}

func (h *Handler) Children(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid location id")
		return
	}
	children, err := h.service.Children(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": children})
}

func (h *Handler) StockLevels(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid location id")
		return
	}
	levels, err := h.service.StockLevels(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": levels})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), req.toLocation())
	if err != nil {
		h.logger.Error("create location failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid location id")
		return
	}
	var req locationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Update(r.Context(), id, req.toLocation()); err != nil {
		h.logger.Error("update location failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	location, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, location)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid location id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
