// internal/app/features/assignments/types.go
package assignments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/brdhub/internal/app/system/assignengine"
	"go.uber.org/zap"
)

// assignRequest is the body of POST /brds/{brdID}/assignment.
type assignRequest struct {
	AssigneeEmail string `json:"assignee_email"`
	Note          string `json:"note"`
	TargetStatus  string `json:"target_status"`
}

// contactRequest is the body of PUT /brds/{brdID}/assignment/contact.
type contactRequest struct {
	Contact string `json:"contact"`
}

// reassignRequest is the body of POST /assignments/reassign.
type reassignRequest struct {
	Items []assignengine.ReassignItem `json:"items"`
}

// holdsResponse answers "is this BRD held by this contact".
type holdsResponse struct {
	BrdID    string `json:"brd_id"`
	Contact  string `json:"contact"`
	Assigned bool   `json:"assigned"`
}

// errorResponse is the uniform JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
// Business outcomes are 4xx; infrastructure and credential failures are
// upstream problems and report as gateway errors.
func writeEngineError(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := assignengine.KindOf(err)

	var status int
	switch kind {
	case assignengine.KindInvalidRequest:
		status = http.StatusBadRequest
	case assignengine.KindNotFound:
		status = http.StatusNotFound
	case assignengine.KindConflict, assignengine.KindDuplicateWrite:
		status = http.StatusConflict
	case assignengine.KindCredential:
		status = http.StatusBadGateway
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		} else {
			status = http.StatusBadGateway
		}
	}

	if status >= 500 {
		log.Error("assignment operation failed", zap.String("kind", kind.String()), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind.String()})
}
