package testutil

import (
	"context"
	"sync"
	"time"

	assignmentstore "github.com/dalemusser/brdhub/internal/app/store/assignments"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory fakes for the assignment engine's collaborator ports. Each
// fake counts calls and lets tests inject failures per method, so retry
// and fault-isolation behavior can be verified without a database.
//
// Absence follows the store convention: mongo.ErrNoDocuments.

// FakeAssignmentStore is an in-memory AssignmentStore keyed by BRD id.
// It enforces the one-assignment-per-BRD rule the way the real store's
// unique index does, returning assignmentstore.ErrDuplicateBrd on a
// second create.
type FakeAssignmentStore struct {
	mu sync.Mutex

	ByBrd map[string]models.Assignment

	CreateCalls   int
	GetCalls      int
	RefreshCalls  int
	UpdateCalls   int
	UpsertCalls   int
	DistinctCalls int
	ListCalls     int

	// Errors to inject, consumed on every call until cleared.
	CreateErr  error
	GetErr     error
	RefreshErr error
	UpdateErr  error
	UpsertErr  error

	// FailCreateTimes injects CreateErr only for the first N calls,
	// letting tests model transient failures that later succeed.
	FailCreateTimes int
}

func NewFakeAssignmentStore() *FakeAssignmentStore {
	return &FakeAssignmentStore{ByBrd: map[string]models.Assignment{}}
}

func (f *FakeAssignmentStore) Create(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateErr != nil {
		if f.FailCreateTimes == 0 || f.CreateCalls <= f.FailCreateTimes {
			return models.Assignment{}, f.CreateErr
		}
	}
	if _, ok := f.ByBrd[a.BrdID]; ok {
		return models.Assignment{}, assignmentstore.ErrDuplicateBrd
	}
	now := time.Now().UTC()
	a.AssigneeEmailCI = text.Fold(a.AssigneeEmail)
	a.AssignedAt = now
	a.UpdatedAt = now
	f.ByBrd[a.BrdID] = a
	return a, nil
}

func (f *FakeAssignmentStore) GetByBrdID(ctx context.Context, brdID string) (models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	if f.GetErr != nil {
		return models.Assignment{}, f.GetErr
	}
	a, ok := f.ByBrd[brdID]
	if !ok {
		return models.Assignment{}, mongo.ErrNoDocuments
	}
	return a, nil
}

func (f *FakeAssignmentStore) RefreshNote(ctx context.Context, brdID, note string) (models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RefreshCalls++
	if f.RefreshErr != nil {
		return models.Assignment{}, f.RefreshErr
	}
	a, ok := f.ByBrd[brdID]
	if !ok {
		return models.Assignment{}, mongo.ErrNoDocuments
	}
	a.Note = note
	a.UpdatedAt = time.Now().UTC()
	f.ByBrd[brdID] = a
	return a, nil
}

func (f *FakeAssignmentStore) UpdateContact(ctx context.Context, brdID, email string) (models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return models.Assignment{}, f.UpdateErr
	}
	a, ok := f.ByBrd[brdID]
	if !ok {
		return models.Assignment{}, mongo.ErrNoDocuments
	}
	a.AssigneeEmail = email
	a.AssigneeEmailCI = text.Fold(email)
	a.UpdatedAt = time.Now().UTC()
	f.ByBrd[brdID] = a
	return a, nil
}

func (f *FakeAssignmentStore) UpsertContact(ctx context.Context, brdID, email string) (models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpsertCalls++
	if f.UpsertErr != nil {
		return models.Assignment{}, f.UpsertErr
	}
	now := time.Now().UTC()
	a, ok := f.ByBrd[brdID]
	if !ok {
		a = models.Assignment{BrdID: brdID, AssignedAt: now}
	}
	a.AssigneeEmail = email
	a.AssigneeEmailCI = text.Fold(email)
	a.UpdatedAt = now
	f.ByBrd[brdID] = a
	return a, nil
}

func (f *FakeAssignmentStore) DistinctAssignees(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DistinctCalls++
	seen := map[string]bool{}
	var out []string
	for _, a := range f.ByBrd {
		if !seen[a.AssigneeEmail] {
			seen[a.AssigneeEmail] = true
			out = append(out, a.AssigneeEmail)
		}
	}
	return out, nil
}

func (f *FakeAssignmentStore) ListByAssignee(ctx context.Context, email string) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	ci := text.Fold(email)
	var out []models.Assignment
	for _, a := range f.ByBrd {
		if a.AssigneeEmailCI == ci {
			out = append(out, a)
		}
	}
	return out, nil
}

// FakeBRDLookup serves BRD records from a map keyed by brd_id.
type FakeBRDLookup struct {
	mu    sync.Mutex
	ByID  map[string]models.BRD
	Calls int
	Err   error
}

func NewFakeBRDLookup(brds ...models.BRD) *FakeBRDLookup {
	m := map[string]models.BRD{}
	for _, b := range brds {
		m[b.BrdID] = b
	}
	return &FakeBRDLookup{ByID: m}
}

func (f *FakeBRDLookup) FindByBrdID(ctx context.Context, brdID string) (models.BRD, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return models.BRD{}, f.Err
	}
	b, ok := f.ByID[brdID]
	if !ok {
		return models.BRD{}, mongo.ErrNoDocuments
	}
	return b, nil
}

// FakeStatusUpdater records status transitions.
type FakeStatusUpdater struct {
	mu    sync.Mutex
	Calls int
	Err   error

	// FailTimes injects Err only for the first N calls.
	FailTimes int

	LastFormID string
	LastStatus string
	LastNote   string
}

func (f *FakeStatusUpdater) UpdateStatus(ctx context.Context, formID, status, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil && (f.FailTimes == 0 || f.Calls <= f.FailTimes) {
		return f.Err
	}
	f.LastFormID = formID
	f.LastStatus = status
	f.LastNote = note
	return nil
}

// FakeNotifier records sent emails.
type FakeNotifier struct {
	mu sync.Mutex

	StatusChangeCalls int
	WelcomeCalls      int
	Err               error

	// FailTimes injects Err only for the first N sends.
	FailTimes int

	LastContact string
	LastStatus  string
}

func (f *FakeNotifier) SendStatusChangeEmail(ctx context.Context, contact, brdID, brdName, formID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusChangeCalls++
	if f.Err != nil && (f.FailTimes == 0 || f.StatusChangeCalls+f.WelcomeCalls <= f.FailTimes) {
		return f.Err
	}
	f.LastContact = contact
	f.LastStatus = status
	return nil
}

func (f *FakeNotifier) SendWelcomeEmail(ctx context.Context, contact, brdID, brdName, formID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.WelcomeCalls++
	if f.Err != nil && (f.FailTimes == 0 || f.StatusChangeCalls+f.WelcomeCalls <= f.FailTimes) {
		return f.Err
	}
	f.LastContact = contact
	return nil
}

// FakeUserDirectory resolves emails to roles from a map.
type FakeUserDirectory struct {
	mu    sync.Mutex
	Roles map[string]string
	Calls int
	Err   error
}

func NewFakeUserDirectory(roles map[string]string) *FakeUserDirectory {
	if roles == nil {
		roles = map[string]string{}
	}
	return &FakeUserDirectory{Roles: roles}
}

func (f *FakeUserDirectory) RoleByEmail(ctx context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return "", f.Err
	}
	role, ok := f.Roles[email]
	if !ok {
		return "", mongo.ErrNoDocuments
	}
	return role, nil
}
