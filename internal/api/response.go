package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// jsonResponse writes data as JSON. Every endpoint reflects live session
// state, so responses are never cached.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		slog.Error("failed to encode response", "status", status, "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// jsonError writes {"error": message}.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}
