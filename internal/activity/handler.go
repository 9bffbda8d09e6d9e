package activity

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pathcrm/pkg/httputil"
)

// Handler wires the activity feed endpoint to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the feed endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/activity", h.HandleFeed)
}

// HandleFeed handles GET /api/activity requests.
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	entries, total, err := h.service.Feed(ctx, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "activity feed failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.ListResponse{
		Success: true,
		Data:    entries,
		Count:   len(entries),
		Total:   total,
	})
}

// queryInt parses an integer query parameter; anything unparseable falls back
// to zero and gets normalized downstream.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
