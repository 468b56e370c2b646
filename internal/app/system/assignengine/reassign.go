// internal/app/system/assignengine/reassign.go
package assignengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/brdhub/internal/app/system/normalize"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Batch outcome statuses.
const (
	BatchSuccess        = "success"
	BatchPartialFailure = "partial_failure"
)

// ReassignItem names one BRD and its replacement assignee.
type ReassignItem struct {
	BrdID            string `json:"brd_id"`
	NewAssigneeEmail string `json:"new_assignee_email"`
}

// BatchResult reports a reassignment batch. Errors maps "error1".."errorN"
// to per-item messages in input order; it is nil when every item succeeded.
type BatchResult struct {
	Status string            `json:"status"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ReassignBatch reassigns each listed BRD to a new contact, strictly in
// input order and never concurrently, so the numbered error keys are
// deterministic. One bad item never aborts the batch: every failure is
// downgraded to a message in the result, and the method itself cannot
// fail.
func (e *Engine) ReassignBatch(ctx context.Context, items []ReassignItem) BatchResult {
	batchID := uuid.NewString()
	var msgs []string

	for i, item := range items {
		if msg := e.reassignOne(ctx, item); msg != "" {
			e.log.Warn("reassignment item failed",
				zap.String("batch_id", batchID),
				zap.Int("item", i+1),
				zap.String("brd_id", item.BrdID),
				zap.String("reason", msg))
			msgs = append(msgs, msg)
		}
	}

	if len(msgs) == 0 {
		e.log.Info("reassignment batch complete",
			zap.String("batch_id", batchID),
			zap.Int("items", len(items)))
		return BatchResult{Status: BatchSuccess}
	}

	errs := make(map[string]string, len(msgs))
	for i, msg := range msgs {
		errs[fmt.Sprintf("error%d", i+1)] = msg
	}
	e.log.Info("reassignment batch complete with failures",
		zap.String("batch_id", batchID),
		zap.Int("items", len(items)),
		zap.Int("failed", len(msgs)))
	return BatchResult{Status: BatchPartialFailure, Errors: errs}
}

// reassignOne processes a single batch item and returns an error message,
// or "" on success. All failure modes, expected or not, become messages.
func (e *Engine) reassignOne(ctx context.Context, item ReassignItem) string {
	email := normalize.Email(item.NewAssigneeEmail)

	role, err := e.directory.RoleByEmail(ctx, email)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Sprintf("brd %s: no user with contact %s", item.BrdID, email)
	case err != nil:
		return fmt.Sprintf("brd %s: directory lookup failed: %v", item.BrdID, err)
	}
	if role != models.RoleAnalyst && role != models.RoleBiller {
		return fmt.Sprintf("brd %s: %s has role %q; reassignment requires an analyst or biller", item.BrdID, email, role)
	}

	_, err = e.assignments.UpdateContact(ctx, item.BrdID, email)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Sprintf("brd %s not found", item.BrdID)
	case err != nil:
		return fmt.Sprintf("brd %s: updating assignment failed: %v", item.BrdID, err)
	}
	return ""
}
