package demo

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	dErrors "pathcrm/pkg/domain-errors"
	"pathcrm/pkg/httputil"
	"pathcrm/pkg/requestcontext"
)

// Handler wires demo endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated booking endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/demo", h.HandleSubmit)
}

// RegisterAdmin mounts the authenticated management endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/demo", h.HandleList)
	r.Delete("/demo/{id}", h.HandleDelete)
	r.Patch("/demo/{id}/status", h.HandleUpdateStatus)
}

// HandleSubmit handles POST /api/demo requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}
	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		httputil.WriteValidationErrors(w, errs)
		return
	}

	if err := h.service.Submit(ctx, req); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "demo submission failed", "error", err)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.MessageResponse{
		Success: true,
		Message: "Demo requested successfully. We'll send a confirmation shortly.",
	})
}

// HandleList handles GET /api/demo requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	demos, total, err := h.service.List(ctx, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "demo list failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.ListResponse{
		Success: true,
		Data:    demos,
		Count:   len(demos),
		Total:   total,
	})
}

// HandleDelete handles DELETE /api/demo/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Demo booking not found."))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "demo delete failed", "error", err)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateStatus handles PATCH /api/demo/{id}/status requests.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Demo booking not found."))
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	outcome, err := h.service.UpdateStatus(ctx, id, req.Status, requestcontext.ActorID(ctx))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "demo status update failed",
				"demo_id", id, "error", err)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    outcome.Snapshot.Entity,
	})
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
