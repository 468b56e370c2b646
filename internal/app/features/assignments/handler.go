// internal/app/features/assignments/handler.go
package assignments

import (
	"github.com/dalemusser/brdhub/internal/app/system/assignengine"
	"go.uber.org/zap"
)

// Handler exposes the assignment engine over HTTP. All endpoints speak
// JSON; route paths are defined in routes.go.
type Handler struct {
	Engine *assignengine.Engine
	Log    *zap.Logger
}

// NewHandler constructs the assignments Handler.
func NewHandler(engine *assignengine.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Log:    logger,
	}
}
