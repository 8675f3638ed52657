package analytics

import (
	"context"
	"net/http"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/transport"
)

type ServiceAPI interface {
	Aggregate(ctx context.Context) (Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Dashboard renders the stats page. Read failures are logged and shown as zeros.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats := h.stats(r)

	h.Render(w, http.StatusOK, "dashboard", transport.PageData{
		Flash:    transport.PopFlash(w, r),
		Username: internal.UsernameFromContext(r.Context()),
		Stats:    stats,
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.stats(r))
}

func (h *Handler) stats(r *http.Request) Stats {
	stats, err := h.Service.Aggregate(r.Context())
	if err != nil {
		h.Logger.Error("analytics unavailable, showing empty stats", "error", err)
	}
	return stats
}
