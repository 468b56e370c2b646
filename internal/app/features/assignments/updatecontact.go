// internal/app/features/assignments/updatecontact.go
package assignments

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HandleUpdateContact handles PUT /brds/{brdID}/assignment/contact.
func (h *Handler) HandleUpdateContact(w http.ResponseWriter, r *http.Request) {
	brdID := chi.URLParam(r, "brdID")

	var body contactRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	a, err := h.Engine.UpdateAssigneeContact(r.Context(), brdID, body.Contact)
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// ServeHolds handles GET /brds/{brdID}/assignment/holds?contact=…
func (h *Handler) ServeHolds(w http.ResponseWriter, r *http.Request) {
	brdID := chi.URLParam(r, "brdID")
	contact := r.URL.Query().Get("contact")
	if contact == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "contact query parameter is required"})
		return
	}

	holds, err := h.Engine.IsAssignedTo(r.Context(), brdID, contact)
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, holdsResponse{
		BrdID:    brdID,
		Contact:  contact,
		Assigned: holds,
	})
}
