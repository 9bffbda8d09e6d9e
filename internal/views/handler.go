package views

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pathcrm/pkg/domain"
	"pathcrm/pkg/httputil"
)

// Handler wires the merged listing endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the leads and lost endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/leads", h.byStatus(domain.StatusLead))
	r.Get("/lost", h.byStatus(domain.StatusLost))
}

func (h *Handler) byStatus(status domain.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit := queryInt(r, "limit")
		offset := queryInt(r, "offset")

		result, err := h.service.ByStatus(ctx, status, limit, offset)
		if err != nil {
			h.logger.ErrorContext(ctx, "merged listing failed",
				"status", status, "error", err)
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"data":          result.Entries,
			"count":         len(result.Entries),
			"total":         result.Total,
			"contactsTotal": result.ContactsTotal,
			"demosTotal":    result.DemosTotal,
		})
	}
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
