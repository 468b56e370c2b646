// internal/app/system/assignengine/engine_test.go
package assignengine_test

import (
	"errors"
	"testing"
	"time"

	assignmentstore "github.com/dalemusser/brdhub/internal/app/store/assignments"
	"github.com/dalemusser/brdhub/internal/app/system/assignengine"
	"github.com/dalemusser/brdhub/internal/app/system/mailer"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/dalemusser/brdhub/internal/testutil"
	"go.uber.org/zap"
)

// fastConfig keeps retry backoff negligible so failure-path tests stay quick.
func fastConfig() assignengine.Config {
	return assignengine.Config{
		Timeout:     5 * time.Second,
		MaxAttempts: 3,
		BackoffBase: time.Millisecond,
		BackoffCap:  2 * time.Millisecond,
	}
}

type engineFixture struct {
	store     *testutil.FakeAssignmentStore
	brds      *testutil.FakeBRDLookup
	status    *testutil.FakeStatusUpdater
	notify    *testutil.FakeNotifier
	directory *testutil.FakeUserDirectory
	engine    *assignengine.Engine
}

func newEngineFixture(t *testing.T, cfg assignengine.Config, brds ...models.BRD) *engineFixture {
	t.Helper()
	f := &engineFixture{
		store:     testutil.NewFakeAssignmentStore(),
		brds:      testutil.NewFakeBRDLookup(brds...),
		status:    &testutil.FakeStatusUpdater{},
		notify:    &testutil.FakeNotifier{},
		directory: testutil.NewFakeUserDirectory(nil),
	}
	f.engine = assignengine.New(f.store, f.brds, f.status, f.notify, f.directory, zap.NewNop(), cfg)
	return f
}

func testBRD() models.BRD {
	return models.BRD{
		BrdID:  "BRD-100",
		FormID: "FORM-100",
		Name:   "Claims Intake Revamp",
		Status: models.BrdStatusDraft,
	}
}

func TestAssign_FirstAssignment(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())

	result, err := f.engine.Assign(testutil.TestContext(t), "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "Analyst@Example.COM",
		Note:          "taking this one",
		TargetStatus:  "assigned",
	})
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if result.AssigneeEmail != "analyst@example.com" {
		t.Errorf("expected normalized email, got %q", result.AssigneeEmail)
	}
	if result.TargetStatus != "ASSIGNED" {
		t.Errorf("expected normalized status ASSIGNED, got %q", result.TargetStatus)
	}
	if f.store.CreateCalls != 1 {
		t.Errorf("expected 1 create, got %d", f.store.CreateCalls)
	}
	if f.status.Calls != 1 || f.status.LastFormID != "FORM-100" || f.status.LastStatus != "ASSIGNED" {
		t.Errorf("unexpected status update: calls=%d form=%q status=%q",
			f.status.Calls, f.status.LastFormID, f.status.LastStatus)
	}
	// ASSIGNED is the welcome status by default, so the welcome variant goes out.
	if f.notify.WelcomeCalls != 1 || f.notify.StatusChangeCalls != 0 {
		t.Errorf("expected 1 welcome email, got welcome=%d status_change=%d",
			f.notify.WelcomeCalls, f.notify.StatusChangeCalls)
	}
}

func TestAssign_NonWelcomeStatus_SendsStatusChange(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())

	_, err := f.engine.Assign(testutil.TestContext(t), "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "analyst@example.com",
		TargetStatus:  "IN_REVIEW",
	})
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if f.notify.StatusChangeCalls != 1 || f.notify.WelcomeCalls != 0 {
		t.Errorf("expected 1 status-change email, got status_change=%d welcome=%d",
			f.notify.StatusChangeCalls, f.notify.WelcomeCalls)
	}
	if f.notify.LastStatus != "IN_REVIEW" {
		t.Errorf("expected IN_REVIEW in notification, got %q", f.notify.LastStatus)
	}
}

func TestAssign_InvalidEmail_FailsBeforeAnyIO(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())

	_, err := f.engine.Assign(testutil.TestContext(t), "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "not-an-email",
		TargetStatus:  "ASSIGNED",
	})
	if assignengine.KindOf(err) != assignengine.KindInvalidRequest {
		t.Fatalf("expected invalid_request, got %v", err)
	}

	if f.brds.Calls != 0 || f.store.CreateCalls != 0 || f.store.GetCalls != 0 ||
		f.status.Calls != 0 || f.notify.StatusChangeCalls+f.notify.WelcomeCalls != 0 {
		t.Error("validation failure must not touch any collaborator")
	}
}

func TestAssign_MissingBrdID_Invalid(t *testing.T) {
	f := newEngineFixture(t, fastConfig())

	_, err := f.engine.Assign(testutil.TestContext(t), "", assignengine.AssignmentRequest{
		AssigneeEmail: "analyst@example.com",
		TargetStatus:  "ASSIGNED",
	})
	if assignengine.KindOf(err) != assignengine.KindInvalidRequest {
		t.Fatalf("expected invalid_request, got %v", err)
	}
}

func TestAssign_UnknownBrd_NotFoundNotRetried(t *testing.T) {
	f := newEngineFixture(t, fastConfig())

	_, err := f.engine.Assign(testutil.TestContext(t), "BRD-404", assignengine.AssignmentRequest{
		AssigneeEmail: "analyst@example.com",
		TargetStatus:  "ASSIGNED",
	})
	if assignengine.KindOf(err) != assignengine.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if f.brds.Calls != 1 {
		t.Errorf("not_found must not be retried; lookup ran %d times", f.brds.Calls)
	}
}

func TestAssign_SameAssignee_Idempotent(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())
	ctx := testutil.TestContext(t)

	req := assignengine.AssignmentRequest{
		AssigneeEmail: "analyst@example.com",
		Note:          "first note",
		TargetStatus:  "ASSIGNED",
	}
	if _, err := f.engine.Assign(ctx, "BRD-100", req); err != nil {
		t.Fatalf("first Assign failed: %v", err)
	}

	// Same assignee, different casing: merges instead of conflicting.
	req.AssigneeEmail = "ANALYST@example.com"
	req.Note = "updated note"
	if _, err := f.engine.Assign(ctx, "BRD-100", req); err != nil {
		t.Fatalf("idempotent re-assign failed: %v", err)
	}

	if f.store.CreateCalls != 1 {
		t.Errorf("re-assign must not create a second record, got %d creates", f.store.CreateCalls)
	}
	if f.store.RefreshCalls != 1 {
		t.Errorf("expected note refresh on re-assign, got %d", f.store.RefreshCalls)
	}
	if got := f.store.ByBrd["BRD-100"].Note; got != "updated note" {
		t.Errorf("note not refreshed, got %q", got)
	}
	// The full pipeline still runs: second status transition and notification.
	if f.status.Calls != 2 {
		t.Errorf("expected 2 status updates, got %d", f.status.Calls)
	}
	if f.notify.WelcomeCalls != 2 {
		t.Errorf("expected 2 notifications, got %d", f.notify.WelcomeCalls)
	}
}

func TestAssign_DifferentAssignee_ConflictWithoutMutation(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())
	ctx := testutil.TestContext(t)

	if _, err := f.engine.Assign(ctx, "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "holder@example.com",
		TargetStatus:  "ASSIGNED",
	}); err != nil {
		t.Fatalf("setup Assign failed: %v", err)
	}
	statusCallsBefore := f.status.Calls
	notifyBefore := f.notify.WelcomeCalls + f.notify.StatusChangeCalls

	_, err := f.engine.Assign(ctx, "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "intruder@example.com",
		TargetStatus:  "ASSIGNED",
	})

	var ee *assignengine.Error
	if !errors.As(err, &ee) || ee.Kind != assignengine.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if ee.Holder != "holder@example.com" {
		t.Errorf("conflict must name the current holder, got %q", ee.Holder)
	}

	if got := f.store.ByBrd["BRD-100"].AssigneeEmail; got != "holder@example.com" {
		t.Errorf("conflict mutated the assignment: %q", got)
	}
	if f.store.RefreshCalls != 0 || f.store.CreateCalls != 1 {
		t.Error("conflict must not write to the assignment store")
	}
	if f.status.Calls != statusCallsBefore {
		t.Error("conflict must not transition status")
	}
	if f.notify.WelcomeCalls+f.notify.StatusChangeCalls != notifyBefore {
		t.Error("conflict must not notify")
	}
}

func TestAssign_DuplicateWriteRace_NotRetried(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())
	// GetByBrdID sees nothing, but the create loses the race at the index.
	f.store.CreateErr = assignmentstore.ErrDuplicateBrd

	_, err := f.engine.Assign(testutil.TestContext(t), "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "analyst@example.com",
		TargetStatus:  "ASSIGNED",
	})
	if assignengine.KindOf(err) != assignengine.KindDuplicateWrite {
		t.Fatalf("expected duplicate_write, got %v", err)
	}
	if f.store.CreateCalls != 1 {
		t.Errorf("duplicate_write must not be retried; create ran %d times", f.store.CreateCalls)
	}
	if f.status.Calls != 0 {
		t.Error("status must not transition after a lost create race")
	}
}

func TestAssign_TransientStatusFailure_RetriedToSuccess(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())
	f.status.Err = errors.New("connection reset by peer")
	f.status.FailTimes = 1

	_, err := f.engine.Assign(testutil.TestContext(t), "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "analyst@example.com",
		TargetStatus:  "ASSIGNED",
	})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if f.status.Calls != 2 {
		t.Errorf("expected 2 status attempts, got %d", f.status.Calls)
	}
	// The assignment persisted on attempt one; attempt two takes the
	// same-assignee merge path instead of creating again.
	if f.store.CreateCalls != 1 {
		t.Errorf("retry must not duplicate the assignment, got %d creates", f.store.CreateCalls)
	}
}

func TestAssign_TransientExhaustion_Infrastructure(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())
	f.notify.Err = errors.New("dial tcp: connection refused")

	_, err := f.engine.Assign(testutil.TestContext(t), "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "analyst@example.com",
		TargetStatus:  "ASSIGNED",
	})
	if assignengine.KindOf(err) != assignengine.KindInfrastructure {
		t.Fatalf("expected infrastructure_failure, got %v", err)
	}
	if got := f.notify.WelcomeCalls; got != 3 {
		t.Errorf("expected 3 attempts before giving up, got %d", got)
	}
}

func TestAssign_CredentialFailure_NotRetried(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())
	f.notify.Err = &mailer.CredentialError{Err: errors.New("535 5.7.8 authentication credentials invalid")}

	_, err := f.engine.Assign(testutil.TestContext(t), "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "analyst@example.com",
		TargetStatus:  "ASSIGNED",
	})
	if assignengine.KindOf(err) != assignengine.KindCredential {
		t.Fatalf("expected credential_failure, got %v", err)
	}
	if f.notify.WelcomeCalls != 1 {
		t.Errorf("credential rejection must short-circuit retry, got %d sends", f.notify.WelcomeCalls)
	}
	// The assignment itself stays persisted even though notification failed.
	if _, ok := f.store.ByBrd["BRD-100"]; !ok {
		t.Error("assignment should remain persisted after a notify failure")
	}
}

func TestUpdateAssigneeContact_CreatesWhenMissing(t *testing.T) {
	f := newEngineFixture(t, fastConfig())

	a, err := f.engine.UpdateAssigneeContact(testutil.TestContext(t), "BRD-900", "Fixed@Example.com")
	if err != nil {
		t.Fatalf("UpdateAssigneeContact failed: %v", err)
	}
	if a.AssigneeEmail != "fixed@example.com" {
		t.Errorf("expected normalized contact, got %q", a.AssigneeEmail)
	}
	if f.store.UpsertCalls != 1 {
		t.Errorf("expected upsert, got %d", f.store.UpsertCalls)
	}
}

func TestUpdateAssigneeContact_InvalidContact(t *testing.T) {
	f := newEngineFixture(t, fastConfig())

	_, err := f.engine.UpdateAssigneeContact(testutil.TestContext(t), "BRD-900", "nope")
	if assignengine.KindOf(err) != assignengine.KindInvalidRequest {
		t.Fatalf("expected invalid_request, got %v", err)
	}
	if f.store.UpsertCalls != 0 {
		t.Error("invalid contact must not reach the store")
	}
}

func TestIsAssignedTo(t *testing.T) {
	f := newEngineFixture(t, fastConfig(), testBRD())
	ctx := testutil.TestContext(t)

	if _, err := f.engine.Assign(ctx, "BRD-100", assignengine.AssignmentRequest{
		AssigneeEmail: "holder@example.com",
		TargetStatus:  "ASSIGNED",
	}); err != nil {
		t.Fatalf("setup Assign failed: %v", err)
	}

	holds, err := f.engine.IsAssignedTo(ctx, "BRD-100", "HOLDER@Example.com")
	if err != nil || !holds {
		t.Errorf("expected case-insensitive match, got holds=%v err=%v", holds, err)
	}

	holds, err = f.engine.IsAssignedTo(ctx, "BRD-100", "other@example.com")
	if err != nil || holds {
		t.Errorf("expected no match for other contact, got holds=%v err=%v", holds, err)
	}

	holds, err = f.engine.IsAssignedTo(ctx, "BRD-404", "holder@example.com")
	if err != nil || holds {
		t.Errorf("missing assignment should be (false, nil), got holds=%v err=%v", holds, err)
	}
}
