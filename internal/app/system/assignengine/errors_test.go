// internal/app/system/assignengine/errors_test.go
package assignengine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"typed conflict", &Error{Kind: KindConflict, Op: "assign"}, KindConflict},
		{"wrapped typed", &Error{Kind: KindNotFound, Op: "assign", Err: errors.New("inner")}, KindNotFound},
		{"plain error", errors.New("dial tcp: timeout"), KindInfrastructure},
		{"nil inner default", &Error{Op: "assign"}, KindInfrastructure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	terminal := []Kind{KindInvalidRequest, KindNotFound, KindConflict, KindDuplicateWrite, KindCredential}
	for _, k := range terminal {
		if retryable(&Error{Kind: k, Op: "assign"}) {
			t.Errorf("%v must not be retryable", k)
		}
	}
	if !retryable(&Error{Kind: KindInfrastructure, Op: "assign", Err: errors.New("timeout")}) {
		t.Error("infrastructure failures must be retryable")
	}
	if !retryable(errors.New("unclassified")) {
		t.Error("unclassified errors default to retryable")
	}
}

func TestErrorMessage_ConflictNamesHolder(t *testing.T) {
	err := &Error{Kind: KindConflict, Op: "assign", Holder: "holder@example.com"}
	msg := err.Error()
	if !strings.Contains(msg, "holder@example.com") || !strings.Contains(msg, "unassign first") {
		t.Errorf("conflict message should name the holder and the remedy, got %q", msg)
	}
}

func TestWithRetry_StopsOnTerminalError(t *testing.T) {
	e := &Engine{log: zap.NewNop(), maxAttempts: 3, backoffBase: time.Millisecond, backoffCap: 2 * time.Millisecond}

	calls := 0
	err := e.withRetry(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return &Error{Kind: KindConflict, Op: "op", Holder: "x@example.com"}
	})
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict to pass through, got %v", err)
	}
	if calls != 1 {
		t.Errorf("terminal error must stop the loop, ran %d times", calls)
	}
}

func TestWithRetry_ExhaustionWrapsLastError(t *testing.T) {
	e := &Engine{log: zap.NewNop(), maxAttempts: 3, backoffBase: time.Millisecond, backoffCap: 2 * time.Millisecond}

	calls := 0
	inner := errors.New("flaky")
	err := e.withRetry(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return inner
	})
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
	if KindOf(err) != KindInfrastructure {
		t.Errorf("exhaustion should report infrastructure_failure, got %v", err)
	}
	if !errors.Is(err, inner) {
		t.Error("wrapped error should unwrap to the last failure")
	}
}

func TestWithRetry_RecoversMidway(t *testing.T) {
	e := &Engine{log: zap.NewNop(), maxAttempts: 3, backoffBase: time.Millisecond, backoffCap: 2 * time.Millisecond}

	calls := 0
	err := e.withRetry(context.Background(), "op", func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected success on attempt 2, got %d attempts", calls)
	}
}

func TestWithRetry_CanceledContextStopsBackoff(t *testing.T) {
	e := &Engine{log: zap.NewNop(), maxAttempts: 3, backoffBase: time.Hour, backoffCap: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		// Cancel while the loop waits out the (long) backoff.
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := e.withRetry(ctx, "op", func(ctx context.Context) error {
		calls++
		return errors.New("flaky")
	})
	if calls != 1 {
		t.Errorf("expected a single attempt before cancellation, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected the context error to surface, got %v", err)
	}
}
