package handler

import (
	"encoding/json"
	"net/http"

	"wefarm/internal/apperr"

	"go.uber.org/zap"
)

// envelope is the response shape every endpoint returns. Count is only set
// on catalog list responses.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondCounted(w http.ResponseWriter, message string, data any, count int) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data, Count: &count})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: message})
}

// respondErr maps a classified error to its status and stable message.
// Internal detail is logged, never sent to the client.
func respondErr(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Errorw("request failed", "error", err)
	}
	writeJSON(w, status, envelope{Success: false, Message: apperr.PublicMessage(err)})
}
