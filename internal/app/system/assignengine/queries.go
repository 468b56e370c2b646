// internal/app/system/assignengine/queries.go
package assignengine

import (
	"context"
	"errors"

	"github.com/dalemusser/brdhub/internal/app/system/normalize"
	"github.com/dalemusser/brdhub/internal/app/system/timeouts"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
)

// ListAssigneeContacts returns the distinct assignee contacts across all
// assignments, bounded by the short timeout.
func (e *Engine) ListAssigneeContacts(ctx context.Context) ([]string, error) {
	const op = "list_assignee_contacts"

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	contacts, err := e.assignments.DistinctAssignees(ctx)
	if err != nil {
		return nil, &Error{Kind: KindInfrastructure, Op: op, Err: err}
	}
	return contacts, nil
}

// ListAssignmentsFor returns every assignment held by the contact.
func (e *Engine) ListAssignmentsFor(ctx context.Context, contact string) ([]models.Assignment, error) {
	const op = "list_assignments_for"

	email := normalize.Email(contact)
	if email == "" || !validate.SimpleEmailValid(email) {
		return nil, &Error{Kind: KindInvalidRequest, Op: op, Err: errors.New("contact must be a valid email")}
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	out, err := e.assignments.ListByAssignee(ctx, email)
	if err != nil {
		return nil, &Error{Kind: KindInfrastructure, Op: op, Err: err}
	}
	return out, nil
}

// ListBrdIDsFor maps the contact's assignments down to BRD identifiers.
func (e *Engine) ListBrdIDsFor(ctx context.Context, contact string) ([]string, error) {
	assignments, err := e.ListAssignmentsFor(ctx, contact)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.BrdID)
	}
	return ids, nil
}
