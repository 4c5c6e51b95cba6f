// Package httputil writes the JSON response envelope shared by handlers
// and middleware.
package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body: {success, data?, error?, count?}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// WriteJSON writes the envelope with the given status code.
func WriteJSON(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

// WriteData writes a successful envelope wrapping data.
func WriteData(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Envelope{Success: true, Data: data})
}

// WriteList writes a successful envelope wrapping a collection plus its
// element count.
func WriteList(w http.ResponseWriter, data any, count int) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// WriteError writes a failure envelope with the given status and message.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Envelope{Success: false, Error: msg})
}
