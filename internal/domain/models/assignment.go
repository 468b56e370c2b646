// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment binds a single responsible party (a business analyst or a
// biller) to one BRD. The assignments collection carries a unique index on
// brd_id, so at most one Assignment can exist per BRD at any time; the store
// relies on that index rather than in-process locking to reject concurrent
// creates.
type Assignment struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BrdID string             `bson:"brd_id" json:"brd_id"`

	// AssigneeEmail is the contact address of the responsible party.
	// AssigneeEmailCI is the case/diacritics-folded shadow used for lookups.
	AssigneeEmail   string `bson:"assignee_email" json:"assignee_email"`
	AssigneeEmailCI string `bson:"assignee_email_ci" json:"-"`

	// Note is free text explaining the assignment. It is sanitized to plain
	// text before it reaches the store.
	Note string `bson:"note" json:"note"`

	AssignedAt time.Time `bson:"assigned_at" json:"assigned_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
