package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/httpjson"
	"github.com/rs/zerolog/hlog"
)

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	info, err := s.media.Info(r.Context(), q.Get("videoId"), q.Get("playlistId"))
	if err != nil {
		writeMediaError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, info)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d, err := s.media.Open(r.Context(), q.Get("videoId"), q.Get("format"), q.Get("quality"))
	if err != nil {
		writeMediaError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+d.Filename+`"`)
	if d.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(d.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	_, err = io.Copy(w, d.Body)
	d.Done(err)
	if err != nil {
		// En-têtes déjà envoyés: le client verra un corps tronqué.
		hlog.FromRequest(r).Warn().Err(err).Str("download_id", d.ID).Msg("download copy failed")
	}
}

// writeMediaError: paramètres invalides → 400, le reste → 500, toujours {"error": msg}.
func writeMediaError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	var coded *app.CodedError
	if errors.As(err, &coded) && coded.Code == app.CodeInvalidParams {
		status = http.StatusBadRequest
		if coded.Message != "" {
			msg = coded.Message
		}
	}
	hlog.FromRequest(r).Warn().Err(err).Str("code", app.ErrorCode(err)).Int("status", status).Msg("media request failed")
	httpjson.WriteError(w, status, msg)
}
