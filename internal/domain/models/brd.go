// internal/domain/models/brd.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BRD statuses move through an onboarding workflow. The assignment engine
// only ever writes Status (plus an appended comment); everything else on the
// document belongs to the intake side.
const (
	BrdStatusDraft     = "DRAFT"
	BrdStatusAssigned  = "ASSIGNED"
	BrdStatusInReview  = "IN_REVIEW"
	BrdStatusCompleted = "COMPLETED"
)

// BRD is a Business Requirements Document being onboarded.
type BRD struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BrdID  string             `bson:"brd_id" json:"brd_id"`
	FormID string             `bson:"form_id" json:"form_id"`
	Name   string             `bson:"name" json:"name"`
	Status string             `bson:"status" json:"status"`

	// Comments is an append-only audit trail of status transitions.
	Comments []StatusComment `bson:"comments,omitempty" json:"comments,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StatusComment records one status transition with its note.
type StatusComment struct {
	Status  string    `bson:"status" json:"status"`
	Note    string    `bson:"note,omitempty" json:"note,omitempty"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}
