package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ayusman/nayana/internal/store"
	"github.com/ayusman/nayana/internal/wink"
)

// SettingsHandler serves GET and PUT /api/settings.
//
// Threshold changes are persisted and take effect on the next start; the
// running session keeps the parameters it was created with.
type SettingsHandler struct {
	store    *store.Store
	base     wink.Thresholds
	params   wink.Params
	validate *validator.Validate
}

type thresholdsBody struct {
	Default     float64 `json:"default" validate:"required,gt=0,lt=1"`
	Constrained float64 `json:"constrained" validate:"required,gt=0,ltfield=Default"`
}

type activeBody struct {
	Context    string  `json:"context"`
	Threshold  float64 `json:"threshold"`
	HoldFrames int     `json:"hold_frames"`
}

type settingsResponse struct {
	Thresholds      thresholdsBody `json:"thresholds"`
	Active          activeBody     `json:"active"`
	RestartRequired bool           `json:"restart_required"`
}

// NewSettingsHandler creates a handler. s may be nil, in which case the
// settings are read-only. base is the configured threshold pair and params
// the running session's parameters.
func NewSettingsHandler(s *store.Store, base wink.Thresholds, params wink.Params) *SettingsHandler {
	return &SettingsHandler{
		store:    s,
		base:     base,
		params:   params,
		validate: validator.New(),
	}
}

// ServeHTTP routes by method.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	t := h.base
	if h.store != nil {
		stored, err := h.store.Settings().Thresholds(h.base)
		if err != nil && !errors.Is(err, wink.ErrInvalidThresholds) {
			writeError(w, http.StatusInternalServerError, "Failed to read settings")
			return
		}
		t = stored
	}

	writeJSON(w, http.StatusOK, h.response(t))
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Settings store not configured")
		return
	}

	var body thresholdsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid thresholds: constrained must be below default, both in (0,1)")
		return
	}

	t := wink.Thresholds{Default: body.Default, Constrained: body.Constrained}
	if err := h.store.Settings().SaveThresholds(t); err != nil {
		if errors.Is(err, wink.ErrInvalidThresholds) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	resp := h.response(t)
	resp.RestartRequired = t.Active(h.params.Context) != h.params.Threshold
	writeJSON(w, http.StatusOK, resp)
}

func (h *SettingsHandler) response(t wink.Thresholds) settingsResponse {
	return settingsResponse{
		Thresholds: thresholdsBody{Default: t.Default, Constrained: t.Constrained},
		Active: activeBody{
			Context:    h.params.Context.String(),
			Threshold:  h.params.Threshold,
			HoldFrames: h.params.HoldFrames,
		},
	}
}
