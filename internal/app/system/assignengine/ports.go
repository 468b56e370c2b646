// internal/app/system/assignengine/ports.go
package assignengine

import (
	"context"

	"github.com/dalemusser/brdhub/internal/domain/models"
)

// Collaborator ports consumed by the engine. The Mongo-backed stores in
// internal/app/store satisfy these; tests substitute fakes.
//
// Absence convention: lookups signal "no such record" with
// mongo.ErrNoDocuments, matching the store layer. The engine classifies
// that into its own error kinds; nothing above the engine sees driver
// errors.

// AssignmentStore is persistent keyed storage for assignments. Create must
// be atomic with respect to the one-assignment-per-BRD rule: a second
// create for the same BRD fails with assignmentstore.ErrDuplicateBrd
// instead of writing a second record.
type AssignmentStore interface {
	Create(ctx context.Context, a models.Assignment) (models.Assignment, error)
	GetByBrdID(ctx context.Context, brdID string) (models.Assignment, error)
	RefreshNote(ctx context.Context, brdID, note string) (models.Assignment, error)
	UpdateContact(ctx context.Context, brdID, email string) (models.Assignment, error)
	UpsertContact(ctx context.Context, brdID, email string) (models.Assignment, error)
	DistinctAssignees(ctx context.Context) ([]string, error)
	ListByAssignee(ctx context.Context, email string) ([]models.Assignment, error)
}

// BRDLookup is read-only access to BRD records.
type BRDLookup interface {
	FindByBrdID(ctx context.Context, brdID string) (models.BRD, error)
}

// StatusUpdater transitions a BRD's workflow status and appends the note
// as a status comment.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, formID, status, note string) error
}

// Notifier delivers role-specific emails. Credential rejections surface as
// *mailer.CredentialError so the engine can exclude them from retry.
type Notifier interface {
	SendStatusChangeEmail(ctx context.Context, contact, brdID, brdName, formID, status string) error
	SendWelcomeEmail(ctx context.Context, contact, brdID, brdName, formID string) error
}

// UserDirectory resolves a contact address to a directory role. Used only
// by the reassignment batch.
type UserDirectory interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}
