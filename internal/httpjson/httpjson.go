// Package httpjson écrit les réponses JSON de l'API.
package httpjson

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renvoie {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorResponse{Error: msg})
}
