// internal/app/store/assignments/assignmentstore_test.go
package assignmentstore_test

import (
	"errors"
	"sort"
	"testing"

	assignmentstore "github.com/dalemusser/brdhub/internal/app/store/assignments"
	"github.com/dalemusser/brdhub/internal/app/system/indexes"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/dalemusser/brdhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := assignmentstore.New(db)

	created, err := store.Create(ctx, models.Assignment{
		BrdID:         "BRD-1",
		AssigneeEmail: "Ana@Example.COM",
		Note:          "kickoff",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.AssigneeEmail != "ana@example.com" {
		t.Errorf("expected normalized email, got %q", created.AssigneeEmail)
	}
	if created.AssigneeEmailCI == "" {
		t.Error("folded contact shadow not derived")
	}
	if created.AssignedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := store.GetByBrdID(ctx, "BRD-1")
	if err != nil {
		t.Fatalf("GetByBrdID failed: %v", err)
	}
	if got.Note != "kickoff" {
		t.Errorf("expected note kickoff, got %q", got.Note)
	}
}

func TestGetByBrdID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := assignmentstore.New(db)

	_, err := store.GetByBrdID(ctx, "BRD-404")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestCreate_DuplicateBrdRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("index setup failed: %v", err)
	}
	store := assignmentstore.New(db)

	if _, err := store.Create(ctx, models.Assignment{BrdID: "BRD-1", AssigneeEmail: "a@example.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Assignment{BrdID: "BRD-1", AssigneeEmail: "b@example.com"})
	if !errors.Is(err, assignmentstore.ErrDuplicateBrd) {
		t.Fatalf("expected ErrDuplicateBrd, got %v", err)
	}

	// The first write won; the loser changed nothing.
	got, err := store.GetByBrdID(ctx, "BRD-1")
	if err != nil {
		t.Fatalf("GetByBrdID failed: %v", err)
	}
	if got.AssigneeEmail != "a@example.com" {
		t.Errorf("duplicate create mutated the record: %q", got.AssigneeEmail)
	}
}

func TestRefreshNote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := assignmentstore.New(db)

	before, err := store.Create(ctx, models.Assignment{BrdID: "BRD-1", AssigneeEmail: "a@example.com", Note: "old"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	after, err := store.RefreshNote(ctx, "BRD-1", "new note")
	if err != nil {
		t.Fatalf("RefreshNote failed: %v", err)
	}
	if after.Note != "new note" {
		t.Errorf("note not refreshed, got %q", after.Note)
	}
	if after.AssigneeEmail != before.AssigneeEmail {
		t.Error("RefreshNote must not change the assignee")
	}
	if after.UpdatedAt.Before(before.UpdatedAt) {
		t.Error("updated_at must not move backwards on refresh")
	}
}

func TestUpdateContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := assignmentstore.New(db)

	if _, err := store.Create(ctx, models.Assignment{BrdID: "BRD-1", AssigneeEmail: "old@example.com", Note: "keep me"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	a, err := store.UpdateContact(ctx, "BRD-1", "New@Example.com")
	if err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}
	if a.AssigneeEmail != "new@example.com" {
		t.Errorf("contact not normalized, got %q", a.AssigneeEmail)
	}
	if a.Note != "keep me" {
		t.Errorf("UpdateContact must preserve the note, got %q", a.Note)
	}

	// No assignment, no update.
	if _, err := store.UpdateContact(ctx, "BRD-404", "new@example.com"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments for unknown BRD, got %v", err)
	}
}

func TestUpsertContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := assignmentstore.New(db)

	// Creates when missing.
	a, err := store.UpsertContact(ctx, "BRD-9", "fix@example.com")
	if err != nil {
		t.Fatalf("UpsertContact (insert) failed: %v", err)
	}
	if a.BrdID != "BRD-9" || a.AssigneeEmail != "fix@example.com" {
		t.Errorf("unexpected upserted record: %+v", a)
	}
	if a.AssignedAt.IsZero() {
		t.Error("assigned_at should be set on insert")
	}

	// Updates in place on the second call.
	b, err := store.UpsertContact(ctx, "BRD-9", "fix2@example.com")
	if err != nil {
		t.Fatalf("UpsertContact (update) failed: %v", err)
	}
	if b.ID != a.ID {
		t.Error("second upsert must retarget the same document")
	}
	if b.AssigneeEmail != "fix2@example.com" {
		t.Errorf("contact not updated, got %q", b.AssigneeEmail)
	}
}

func TestDistinctAssigneesAndListByAssignee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := assignmentstore.New(db)

	seed := []models.Assignment{
		{BrdID: "BRD-1", AssigneeEmail: "ana@example.com"},
		{BrdID: "BRD-2", AssigneeEmail: "ana@example.com"},
		{BrdID: "BRD-3", AssigneeEmail: "bill@example.com"},
	}
	for _, a := range seed {
		if _, err := store.Create(ctx, a); err != nil {
			t.Fatalf("seed Create failed: %v", err)
		}
	}

	contacts, err := store.DistinctAssignees(ctx)
	if err != nil {
		t.Fatalf("DistinctAssignees failed: %v", err)
	}
	sort.Strings(contacts)
	if len(contacts) != 2 || contacts[0] != "ana@example.com" || contacts[1] != "bill@example.com" {
		t.Errorf("unexpected contacts %v", contacts)
	}

	// Case-insensitive reverse lookup.
	mine, err := store.ListByAssignee(ctx, "ANA@Example.com")
	if err != nil {
		t.Fatalf("ListByAssignee failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 assignments for ana, got %d", len(mine))
	}
}
