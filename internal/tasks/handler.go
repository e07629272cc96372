package tasks

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

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

// Routes mounts the task endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/my", h.My)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/complete", h.Complete)
	r.Delete("/{id}", h.Delete)
}

type taskRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	AssignedTo       *int64     `json:"assigned_to"`
	RelatedPickingID *int64     `json:"related_picking_id"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	DueDate          *time.Time `json:"due_date"`
}

func (req taskRequest) toTask() Task {
	return Task{
		Title:            req.Title,
		Description:      req.Description,
		AssignedTo:       req.AssignedTo,
		RelatedPickingID: req.RelatedPickingID,
		Status:           Status(req.Status),
		Priority:         Priority(req.Priority),
		DueDate:          req.DueDate,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{
		ListFilters: shared.ParseListFilters(r),
		Status:      r.URL.Query().Get("status"),
		Priority:    r.URL.Query().Get("priority"),
	}
	if raw := r.URL.Query().Get("assigned_to"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.AssignedTo = &parsed
		}
	}
	h.list(w, r, filters)
}

// My lists the tasks assigned to the authenticated user.
func (h *Handler) My(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing actor")
		return
	}
	filters := ListFilters{
		ListFilters: shared.ParseListFilters(r),
		Status:      r.URL.Query().Get("status"),
		AssignedTo:  &actor.ID,
	}
	h.list(w, r, filters)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, filters ListFilters) {
	list, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list tasks failed", slog.Any("error", err))
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
		httpx.Error(w, http.StatusBadRequest, "invalid task id")
		return
	}
	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	task, err := h.service.Create(r.Context(), req.toTask())
	if err != nil {
		h.logger.Error("create task failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, task)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid task id")
		return
	}
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	task, err := h.service.Update(r.Context(), id, req.toTask())
	if err != nil {
		h.logger.Error("update task failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid task id")
		return
	}
	task, err := h.service.Complete(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid task id")
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
