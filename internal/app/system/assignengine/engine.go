// internal/app/system/assignengine/engine.go
package assignengine

import (
	"context"
	"errors"
	"time"

	assignmentstore "github.com/dalemusser/brdhub/internal/app/store/assignments"
	"github.com/dalemusser/brdhub/internal/app/system/mailer"
	"github.com/dalemusser/brdhub/internal/app/system/normalize"
	"github.com/dalemusser/brdhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Defaults for the whole-operation policy. Assign runs under a bounded
// end-to-end deadline; transient failures are retried with exponential
// backoff up to MaxAttempts total attempts.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 3
	DefaultBackoffBase = 100 * time.Millisecond
	DefaultBackoffCap  = time.Second
)

// Config tunes the engine. Zero values fall back to the defaults above.
type Config struct {
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// WelcomeStatus selects the notification variant: an Assign whose
	// target status equals this value sends the welcome email instead of
	// the status-change email.
	WelcomeStatus string
}

// Engine orchestrates BRD assignment: validation, existence check,
// assignment resolution, persistence, status transition, and notification,
// in that strict order. It holds no state of its own; the assignment
// store's unique index is the only concurrency arbiter for same-BRD races.
type Engine struct {
	assignments AssignmentStore
	brds        BRDLookup
	status      StatusUpdater
	notify      Notifier
	directory   UserDirectory
	log         *zap.Logger

	timeout       time.Duration
	maxAttempts   int
	backoffBase   time.Duration
	backoffCap    time.Duration
	welcomeStatus string
}

func New(assignments AssignmentStore, brds BRDLookup, status StatusUpdater, notify Notifier, directory UserDirectory, logger *zap.Logger, cfg Config) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffCap <= 0 {
		cfg.BackoffCap = DefaultBackoffCap
	}
	if cfg.WelcomeStatus == "" {
		cfg.WelcomeStatus = models.BrdStatusAssigned
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		assignments:   assignments,
		brds:          brds,
		status:        status,
		notify:        notify,
		directory:     directory,
		log:           logger,
		timeout:       cfg.Timeout,
		maxAttempts:   cfg.MaxAttempts,
		backoffBase:   cfg.BackoffBase,
		backoffCap:    cfg.BackoffCap,
		welcomeStatus: normalize.Status(cfg.WelcomeStatus),
	}
}

// AssignmentRequest is the caller's input to Assign. It is a value, never
// persisted as-is.
type AssignmentRequest struct {
	AssigneeEmail string
	Note          string
	TargetStatus  string
}

// AssignmentResult is returned when the full pipeline succeeds.
type AssignmentResult struct {
	BrdID         string `json:"brd_id"`
	AssigneeEmail string `json:"assignee_email"`
	Note          string `json:"note"`
	TargetStatus  string `json:"target_status"`
}

// Assign binds req.AssigneeEmail to the BRD and couples the write with a
// status transition and a notification.
//
// Stage order is fixed: validate, BRD lookup, resolve assignment state,
// persist, transition status, notify. Persisted writes are not rolled back
// when a later stage fails; the caller sees the failure and the assignment
// stays in place (at-least-once-persisted, at-most-once-notified).
func (e *Engine) Assign(ctx context.Context, brdID string, req AssignmentRequest) (AssignmentResult, error) {
	const op = "assign"

	email := normalize.Email(req.AssigneeEmail)
	status := normalize.Status(req.TargetStatus)
	switch {
	case brdID == "":
		return AssignmentResult{}, &Error{Kind: KindInvalidRequest, Op: op, Err: errors.New("brd id is required")}
	case email == "" || !validate.SimpleEmailValid(email):
		return AssignmentResult{}, &Error{Kind: KindInvalidRequest, Op: op, Err: errors.New("assignee contact must be a valid email")}
	case status == "":
		return AssignmentResult{}, &Error{Kind: KindInvalidRequest, Op: op, Err: errors.New("target status is required")}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	err := e.withRetry(ctx, op, func(ctx context.Context) error {
		return e.assignOnce(ctx, brdID, email, req.Note, status)
	})
	if err != nil {
		return AssignmentResult{}, err
	}
	return AssignmentResult{
		BrdID:         brdID,
		AssigneeEmail: email,
		Note:          req.Note,
		TargetStatus:  status,
	}, nil
}

// assignOnce runs one attempt of the pipeline past validation.
func (e *Engine) assignOnce(ctx context.Context, brdID, email, note, status string) error {
	const op = "assign"

	brd, err := e.brds.FindByBrdID(ctx, brdID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &Error{Kind: KindNotFound, Op: op, Err: errors.New("brd " + brdID + " not found")}
	}
	if err != nil {
		return &Error{Kind: KindInfrastructure, Op: op, Err: err}
	}

	firstAssignment := false
	existing, err := e.assignments.GetByBrdID(ctx, brdID)
	switch {
	case err == nil:
		if existing.AssigneeEmailCI != text.Fold(email) {
			// Terminal business outcome; the holder must be unassigned
			// before the BRD can move to someone else.
			return &Error{Kind: KindConflict, Op: op, Holder: existing.AssigneeEmail}
		}
		// Same assignee: idempotent merge, refresh note and updated_at.
		if _, err := e.assignments.RefreshNote(ctx, brdID, note); err != nil {
			return &Error{Kind: KindInfrastructure, Op: op, Err: err}
		}
	case errors.Is(err, mongo.ErrNoDocuments):
		firstAssignment = true
		_, err := e.assignments.Create(ctx, models.Assignment{
			BrdID:         brdID,
			AssigneeEmail: email,
			Note:          note,
		})
		if err != nil {
			if errors.Is(err, assignmentstore.ErrDuplicateBrd) {
				// Lost a same-BRD race at the unique index. Not retried:
				// the winner may be a different assignee, so the caller
				// must re-query and decide.
				return &Error{Kind: KindDuplicateWrite, Op: op, Err: err}
			}
			return &Error{Kind: KindInfrastructure, Op: op, Err: err}
		}
	default:
		return &Error{Kind: KindInfrastructure, Op: op, Err: err}
	}

	if err := e.status.UpdateStatus(ctx, brd.FormID, status, note); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &Error{Kind: KindNotFound, Op: op, Err: err}
		}
		return &Error{Kind: KindInfrastructure, Op: op, Err: err}
	}

	if status == e.welcomeStatus {
		err = e.notify.SendWelcomeEmail(ctx, email, brd.BrdID, brd.Name, brd.FormID)
	} else {
		err = e.notify.SendStatusChangeEmail(ctx, email, brd.BrdID, brd.Name, brd.FormID, status)
	}
	if err != nil {
		var cred *mailer.CredentialError
		if errors.As(err, &cred) {
			return &Error{Kind: KindCredential, Op: op, Err: err}
		}
		return &Error{Kind: KindInfrastructure, Op: op, Err: err}
	}

	e.log.Info("brd assigned",
		zap.String("brd_id", brdID),
		zap.String("assignee", email),
		zap.String("status", status),
		zap.Bool("first_assignment", firstAssignment))
	return nil
}

// UpdateAssigneeContact rewrites the contact on a BRD's assignment,
// creating the record when none exists. Unlike Assign it does not verify
// the BRD itself exists: this is the admin correction path and must work
// even for records whose BRD was imported out of band.
func (e *Engine) UpdateAssigneeContact(ctx context.Context, brdID, contact string) (models.Assignment, error) {
	const op = "update_assignee_contact"

	email := normalize.Email(contact)
	if brdID == "" || email == "" || !validate.SimpleEmailValid(email) {
		return models.Assignment{}, &Error{Kind: KindInvalidRequest, Op: op, Err: errors.New("brd id and a valid contact email are required")}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	a, err := e.assignments.UpsertContact(ctx, brdID, email)
	if err != nil {
		return models.Assignment{}, &Error{Kind: KindInfrastructure, Op: op, Err: err}
	}
	return a, nil
}

// IsAssignedTo reports whether the BRD is currently assigned to contact.
// A missing assignment is (false, nil), not an error.
func (e *Engine) IsAssignedTo(ctx context.Context, brdID, contact string) (bool, error) {
	const op = "is_assigned_to"

	a, err := e.assignments.GetByBrdID(ctx, brdID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, &Error{Kind: KindInfrastructure, Op: op, Err: err}
	}
	return a.AssigneeEmailCI == text.Fold(normalize.Email(contact)), nil
}
