// internal/app/features/assignments/queries.go
package assignments

import (
	"net/http"
)

// ServeContacts handles GET /assignments/contacts.
func (h *Handler) ServeContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Engine.ListAssigneeContacts(r.Context())
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	if contacts == nil {
		contacts = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"contacts": contacts})
}

// ServeListForContact handles GET /assignments?contact=…
func (h *Handler) ServeListForContact(w http.ResponseWriter, r *http.Request) {
	contact := r.URL.Query().Get("contact")

	assignments, err := h.Engine.ListAssignmentsFor(r.Context(), contact)
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

// ServeBrdIDsForContact handles GET /assignments/brd-ids?contact=…
func (h *Handler) ServeBrdIDsForContact(w http.ResponseWriter, r *http.Request) {
	contact := r.URL.Query().Get("contact")

	ids, err := h.Engine.ListBrdIDsFor(r.Context(), contact)
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"brd_ids": ids})
}
