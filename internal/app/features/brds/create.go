// internal/app/features/brds/create.go
package brds

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	brdstore "github.com/dalemusser/brdhub/internal/app/store/brds"
	"github.com/dalemusser/brdhub/internal/app/system/timeouts"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /brds: registering a document in the tracking
// system so it can later be assigned.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	body.BrdID = strings.TrimSpace(body.BrdID)
	body.FormID = strings.TrimSpace(body.FormID)
	body.Name = strings.TrimSpace(body.Name)
	switch {
	case body.BrdID == "":
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "brd_id is required"})
		return
	case body.FormID == "":
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "form_id is required"})
		return
	case body.Name == "":
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "brd create")
	defer cancel()

	created, err := h.Store.Create(ctx, models.BRD{
		BrdID:  body.BrdID,
		FormID: body.FormID,
		Name:   body.Name,
		Status: body.Status,
	})
	if errors.Is(err, brdstore.ErrDuplicateBrdID) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.Log.Error("brd create failed", zap.String("brd_id", body.BrdID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "storing the BRD failed"})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
