// Package respond holds the JSON response helpers shared by the public
// endpoint handlers. Every error leaves the service as {error, details?}.
package respond

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the uniform error shape for all endpoints.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes a JSON payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes the uniform {error, details} shape.
func Error(w http.ResponseWriter, status int, msg, details string) {
	JSON(w, status, ErrorBody{Error: msg, Details: details})
}
