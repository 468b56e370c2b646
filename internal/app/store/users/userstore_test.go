// internal/app/store/users/userstore_test.go
package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/brdhub/internal/app/store/users"
	"github.com/dalemusser/brdhub/internal/app/system/indexes"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/dalemusser/brdhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateAndGetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)

	created, err := store.Create(ctx, models.User{
		FullName: "  Ana Lopez  ",
		Email:    "Ana@Example.COM",
		Role:     models.RoleAnalyst,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.FullName != "Ana Lopez" {
		t.Errorf("name not trimmed, got %q", created.FullName)
	}
	if created.Email != "ana@example.com" {
		t.Errorf("email not normalized, got %q", created.Email)
	}
	if created.Status != "active" {
		t.Errorf("expected active default, got %q", created.Status)
	}

	got, err := store.GetByEmail(ctx, "ANA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Error("case-insensitive lookup returned a different user")
	}
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)

	_, err := store.Create(ctx, models.User{FullName: "X", Email: "x@example.com", Role: "wizard"})
	if err == nil {
		t.Fatal("expected role validation error")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("index setup failed: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{FullName: "A", Email: "dup@example.com", Role: models.RoleAnalyst}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	// Same address, different casing: the folded shadow collides.
	_, err := store.Create(ctx, models.User{FullName: "B", Email: "DUP@example.com", Role: models.RoleBiller})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRoleByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{FullName: "Bill", Email: "bill@example.com", Role: models.RoleBiller}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	role, err := store.RoleByEmail(ctx, "BILL@Example.com")
	if err != nil {
		t.Fatalf("RoleByEmail failed: %v", err)
	}
	if role != models.RoleBiller {
		t.Errorf("expected biller, got %q", role)
	}

	if _, err := store.RoleByEmail(ctx, "ghost@example.com"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments for unknown contact, got %v", err)
	}
}

func TestListByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := userstore.New(db)

	seed := []models.User{
		{FullName: "Zoe", Email: "zoe@example.com", Role: models.RoleAnalyst},
		{FullName: "Ana", Email: "ana@example.com", Role: models.RoleAnalyst},
		{FullName: "Bill", Email: "bill@example.com", Role: models.RoleBiller},
		{FullName: "Gone", Email: "gone@example.com", Role: models.RoleAnalyst, Status: "disabled"},
	}
	for _, u := range seed {
		if _, err := store.Create(ctx, u); err != nil {
			t.Fatalf("seed Create failed: %v", err)
		}
	}

	analysts, err := store.ListByRole(ctx, models.RoleAnalyst)
	if err != nil {
		t.Fatalf("ListByRole failed: %v", err)
	}
	if len(analysts) != 2 {
		t.Fatalf("expected 2 active analysts, got %d", len(analysts))
	}
	if analysts[0].FullName != "Ana" || analysts[1].FullName != "Zoe" {
		t.Errorf("expected name order Ana, Zoe; got %s, %s", analysts[0].FullName, analysts[1].FullName)
	}
}
