// internal/app/features/assignments/reassign.go
package assignments

import (
	"encoding/json"
	"net/http"
)

// HandleReassign handles POST /assignments/reassign.
//
// The batch endpoint always answers 200: per-item failures are reported
// in the result body ("partial_failure" plus numbered error messages),
// never as an HTTP error. Only a malformed request body is rejected.
func (h *Handler) HandleReassign(w http.ResponseWriter, r *http.Request) {
	var body reassignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	result := h.Engine.ReassignBatch(r.Context(), body.Items)
	writeJSON(w, http.StatusOK, result)
}
