// internal/app/features/brds/routes.go
package brds

import (
	"github.com/go-chi/chi/v5"
)

// Register adds the BRD intake endpoints to r. The /brds subrouter is
// shared with the assignments feature (which owns /{brdID}/assignment),
// so registration composes onto a router built in bootstrap rather than
// returning its own mount.
func Register(r chi.Router, h *Handler) {
	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)
	r.Get("/{brdID}", h.ServeGet)
}
