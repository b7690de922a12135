package api

import (
	"context"
	"net/http"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]any
	Ping(ctx context.Context) error
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats. The store health is included; an
// unreachable store turns the response into a 503.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.statsProvider.GetStats(r.Context())
	status := http.StatusOK
	if err := h.statsProvider.Ping(r.Context()); err != nil {
		stats["store"] = "unavailable: " + err.Error()
		status = http.StatusServiceUnavailable
	} else {
		stats["store"] = "ok"
	}
	writeJSON(w, status, stats)
}
