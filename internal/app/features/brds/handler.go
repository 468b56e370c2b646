// internal/app/features/brds/handler.go
package brds

import (
	brdstore "github.com/dalemusser/brdhub/internal/app/store/brds"
	"go.uber.org/zap"
)

// Handler serves the BRD intake endpoints: registering a document in the
// tracking system and reading it back. Assignment endpoints live in the
// assignments feature.
type Handler struct {
	Store *brdstore.Store
	Log   *zap.Logger
}

// NewHandler constructs the brds Handler.
func NewHandler(store *brdstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}
