package api

import (
	"net/http"

	"github.com/ayusman/nayana/internal/status"
)

// StatusHandler serves the latest wink output as a JSON snapshot.
type StatusHandler struct {
	hub *status.Hub
}

// NewStatusHandler creates a new StatusHandler reading from hub.
func NewStatusHandler(hub *status.Hub) *StatusHandler {
	return &StatusHandler{hub: hub}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	out, ok := h.hub.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "No frames processed yet")
		return
	}

	writeJSON(w, http.StatusOK, out)
}
