// internal/app/features/assignments/assign.go
package assignments

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/brdhub/internal/app/system/assignengine"
	"github.com/dalemusser/brdhub/internal/app/system/htmlsanitize"
	"github.com/go-chi/chi/v5"
)

// HandleAssign handles POST /brds/{brdID}/assignment.
//
// The note is free text from the caller and ends up in emails and the
// BRD's comment trail, so it is sanitized here at the boundary before the
// engine ever sees it.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	brdID := chi.URLParam(r, "brdID")

	var body assignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	result, err := h.Engine.Assign(r.Context(), brdID, assignengine.AssignmentRequest{
		AssigneeEmail: body.AssigneeEmail,
		Note:          htmlsanitize.Note(body.Note),
		TargetStatus:  body.TargetStatus,
	})
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
