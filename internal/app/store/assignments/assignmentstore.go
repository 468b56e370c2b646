// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/brdhub/internal/app/system/normalize"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateBrd is returned by Create when an assignment already exists
// for the BRD. The unique index on brd_id is the arbiter; two concurrent
// creates for the same BRD cannot both succeed.
var ErrDuplicateBrd = errors.New("an assignment already exists for this BRD")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

// Create inserts a new assignment. Timestamps are set to now (UTC) when
// zero, and the folded contact shadow is always derived here so callers
// cannot desynchronize it. Duplicate-key failures on brd_id surface as
// ErrDuplicateBrd.
func (s *Store) Create(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	now := time.Now().UTC()
	if a.AssignedAt.IsZero() {
		a.AssignedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	a.AssigneeEmail = normalize.Email(a.AssigneeEmail)
	a.AssigneeEmailCI = text.Fold(a.AssigneeEmail)

	res, err := s.c.InsertOne(ctx, a)
	if err != nil {
		if IsDuplicateKey(err) {
			return a, ErrDuplicateBrd
		}
		return a, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return a, nil
}

// GetByBrdID returns the assignment for a BRD.
// Returns mongo.ErrNoDocuments when none exists.
func (s *Store) GetByBrdID(ctx context.Context, brdID string) (models.Assignment, error) {
	var a models.Assignment
	err := s.c.FindOne(ctx, bson.M{"brd_id": brdID}).Decode(&a)
	return a, err
}

// RefreshNote updates the note and updated_at on an existing assignment.
// Used for the idempotent re-assign path where the assignee is unchanged.
func (s *Store) RefreshNote(ctx context.Context, brdID, note string) (models.Assignment, error) {
	after := options.After
	var a models.Assignment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"brd_id": brdID},
		bson.M{"$set": bson.M{
			"note":       note,
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&a)
	return a, err
}

// UpdateContact replaces the assignee contact on an existing assignment.
// Returns mongo.ErrNoDocuments when the BRD has no assignment.
func (s *Store) UpdateContact(ctx context.Context, brdID, email string) (models.Assignment, error) {
	email = normalize.Email(email)
	after := options.After
	var a models.Assignment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"brd_id": brdID},
		bson.M{"$set": bson.M{
			"assignee_email":    email,
			"assignee_email_ci": text.Fold(email),
			"updated_at":        time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&a)
	return a, err
}

// UpsertContact updates the assignee contact for a BRD, creating the
// assignment record if none exists. The unique index makes the
// find-or-insert race safe: a losing concurrent upsert retargets the
// winner's document instead of inserting a second one.
func (s *Store) UpsertContact(ctx context.Context, brdID, email string) (models.Assignment, error) {
	email = normalize.Email(email)
	now := time.Now().UTC()
	after := options.After
	var a models.Assignment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"brd_id": brdID},
		bson.M{
			"$set": bson.M{
				"assignee_email":    email,
				"assignee_email_ci": text.Fold(email),
				"updated_at":        now,
			},
			"$setOnInsert": bson.M{
				"brd_id":      brdID,
				"note":        "",
				"assigned_at": now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(after),
	).Decode(&a)
	return a, err
}

// DistinctAssignees returns the distinct assignee contacts across all
// assignments.
func (s *Store) DistinctAssignees(ctx context.Context) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "assignee_email", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	return out, nil
}

// ListByAssignee returns all assignments held by a contact, matched
// case-insensitively via the folded shadow field.
func (s *Store) ListByAssignee(ctx context.Context, email string) ([]models.Assignment, error) {
	cur, err := s.c.Find(ctx, bson.M{"assignee_email_ci": text.Fold(normalize.Email(email))})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsDuplicateKey reports whether err is a Mongo duplicate-key failure
// (E11000). Works across server vendors that phrase the error differently.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}
