// Package rest holds the shared JSON response helpers used by all handlers.
package rest

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON writes body as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// WriteError writes the machine-readable error envelope: {"error":{"code":...,"details":...}}.
func WriteError(w http.ResponseWriter, status int, code string, details map[string]any) {
	WriteJSON(w, status, errorBody{Error: errorDetail{Code: code, Details: details}})
}
