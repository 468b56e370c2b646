package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateBRD creates a test BRD with the given identifiers.
// Returns the created BRD with its generated ID.
func (f *Fixtures) CreateBRD(ctx context.Context, brdID, formID, name string) models.BRD {
	f.t.Helper()

	now := time.Now().UTC()
	b := models.BRD{
		ID:        primitive.NewObjectID(),
		BrdID:     brdID,
		FormID:    formID,
		Name:      name,
		Status:    models.BrdStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("brds").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("failed to create test BRD: %v", err)
	}
	return b
}

// CreateUser creates a test user with the given email and role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAssignment creates a test assignment binding a contact to a BRD.
func (f *Fixtures) CreateAssignment(ctx context.Context, brdID, assigneeEmail, note string) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:              primitive.NewObjectID(),
		BrdID:           brdID,
		AssigneeEmail:   assigneeEmail,
		AssigneeEmailCI: text.Fold(assigneeEmail),
		Note:            note,
		AssignedAt:      now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}
