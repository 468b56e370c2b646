// internal/app/features/brds/list.go
package brds

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/brdhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /brds?limit=…
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brd list")
	defer cancel()

	out, err := h.Store.List(ctx, limit)
	if err != nil {
		h.Log.Error("brd list failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "listing BRDs failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"brds": out})
}

// ServeGet handles GET /brds/{brdID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	brdID := chi.URLParam(r, "brdID")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "brd get")
	defer cancel()

	b, err := h.Store.FindByBrdID(ctx, brdID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "brd " + brdID + " not found"})
		return
	}
	if err != nil {
		h.Log.Error("brd get failed", zap.String("brd_id", brdID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "loading the BRD failed"})
		return
	}
	writeJSON(w, http.StatusOK, b)
}
