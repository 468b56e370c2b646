// internal/app/system/assignengine/errors.go
package assignengine

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure. The retry predicate keys off Kind:
// only infrastructure failures are retried; business outcomes and
// credential rejections are terminal.
type Kind int

const (
	// KindInfrastructure covers timeouts, connectivity, and any error the
	// engine cannot classify. Retried with backoff.
	KindInfrastructure Kind = iota
	// KindInvalidRequest is malformed input, rejected before any I/O.
	KindInvalidRequest
	// KindNotFound means the referenced BRD or assignment does not exist.
	KindNotFound
	// KindConflict means the BRD is already assigned to a different party.
	KindConflict
	// KindDuplicateWrite is a storage-level race on create; the caller must
	// re-query rather than retry blindly.
	KindDuplicateWrite
	// KindCredential is a notification-gateway credential rejection.
	// Retrying cannot help an invalid credential.
	KindCredential
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDuplicateWrite:
		return "duplicate_write"
	case KindCredential:
		return "credential_failure"
	default:
		return "infrastructure_failure"
	}
}

// Error is the engine's typed failure. Holder is set for conflicts so the
// caller can tell who currently owns the assignment.
type Error struct {
	Kind   Kind
	Op     string
	Holder string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindConflict && e.Holder != "":
		return fmt.Sprintf("%s: already assigned to %s; unassign first", e.Op, e.Holder)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err. Anything that is not an engine Error
// is treated as infrastructure, which makes unclassified errors retryable.
func KindOf(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindInfrastructure
}

// retryable reports whether the retry loop may run the operation again.
// Business outcomes and credential failures are never retried, even when
// they surface mid-pipeline from an otherwise retry-eligible stage.
func retryable(err error) bool {
	switch KindOf(err) {
	case KindInvalidRequest, KindNotFound, KindConflict, KindDuplicateWrite, KindCredential:
		return false
	default:
		return true
	}
}
