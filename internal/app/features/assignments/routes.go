// internal/app/features/assignments/routes.go
package assignments

import (
	"github.com/go-chi/chi/v5"
)

// RegisterBrdRoutes adds the assignment endpoints that hang off a single
// BRD to the shared /brds subrouter built in bootstrap.
func RegisterBrdRoutes(r chi.Router, h *Handler) {
	r.Post("/{brdID}/assignment", h.HandleAssign)
	r.Put("/{brdID}/assignment/contact", h.HandleUpdateContact)
	r.Get("/{brdID}/assignment/holds", h.ServeHolds)
}

// Routes returns the cross-BRD assignment endpoints.
// Mounted under /assignments in bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/reassign", h.HandleReassign)
	r.Get("/contacts", h.ServeContacts)
	r.Get("/", h.ServeListForContact)
	r.Get("/brd-ids", h.ServeBrdIDsForContact)

	return r
}
