// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Analysts and billers are the only roles a BRD can be
// reassigned to; admins manage the directory itself.
const (
	RoleAnalyst = "analyst"
	RoleBiller  = "biller"
	RoleAdmin   = "admin"
)

// User is a directory entry for someone who can hold BRD assignments.
// The directory carries no credentials; authentication is handled upstream.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"`
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`
	Role       string             `bson:"role" json:"role"`
	Status     string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
