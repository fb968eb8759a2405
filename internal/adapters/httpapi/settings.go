package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/httpjson"
	"github.com/rs/zerolog/hlog"
)

type SettingsHandler struct {
	settings *app.SettingsService
	onPut    func(domain.ServerSettings)
}

func NewSettingsHandler(settings *app.SettingsService, onPut func(domain.ServerSettings)) *SettingsHandler {
	return &SettingsHandler{settings: settings, onPut: onPut}
}

func (h *SettingsHandler) Routes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings", h.put)
}

// settingsRequest distingue un champ absent d'une valeur nulle.
type settingsRequest struct {
	MaxConcurrentStreams *int `json:"maxConcurrentStreams"`
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, s)
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.MaxConcurrentStreams == nil {
		httpjson.WriteError(w, http.StatusBadRequest, "maxConcurrentStreams is required")
		return
	}

	updated, err := h.settings.Put(r.Context(), domain.ServerSettings{MaxConcurrentStreams: *req.MaxConcurrentStreams})
	if err != nil {
		if app.ErrorCode(err) == app.CodeInvalidParams {
			httpjson.WriteError(w, http.StatusBadRequest, app.UserMessage(err))
			return
		}
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.onPut != nil {
		h.onPut(updated)
	}
	hlog.FromRequest(r).Info().Int("max_streams", updated.MaxConcurrentStreams).Msg("settings updated")
	httpjson.Write(w, http.StatusOK, updated)
}
