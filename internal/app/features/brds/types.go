// internal/app/features/brds/types.go
package brds

import (
	"encoding/json"
	"net/http"
)

// createRequest is the body of POST /brds.
type createRequest struct {
	BrdID  string `json:"brd_id"`
	FormID string `json:"form_id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// errorResponse is the uniform JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
