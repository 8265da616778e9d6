package status

import (
	"net/http"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/envelope"
)

// Handler serves the status endpoints. Both always answer 200.
type Handler struct {
	agg *Aggregator
}

func NewHandler(agg *Aggregator) *Handler {
	return &Handler{agg: agg}
}

// Root serves GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	envelope.WriteJSON(w, http.StatusOK, h.agg.Root(r.Context()))
}

// Health serves GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	envelope.WriteJSON(w, http.StatusOK, h.agg.Health(r.Context()))
}
