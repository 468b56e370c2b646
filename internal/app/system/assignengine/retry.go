// internal/app/system/assignengine/retry.go
package assignengine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// withRetry runs fn until it succeeds, returns a non-retryable error, or
// exhausts e.maxAttempts. Backoff doubles from e.backoffBase up to
// e.backoffCap between attempts. The context deadline bounds the whole
// loop; a deadline hit while waiting surfaces as an infrastructure error
// wrapping ctx.Err().
func (e *Engine) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	var last error
	backoff := e.backoffBase

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		last = err
		if attempt == e.maxAttempts {
			break
		}

		e.log.Warn("transient failure, backing off",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return &Error{Kind: KindInfrastructure, Op: op, Err: ctx.Err()}
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > e.backoffCap {
			backoff = e.backoffCap
		}
	}

	if _, ok := last.(*Error); ok {
		return last
	}
	return &Error{Kind: KindInfrastructure, Op: op, Err: last}
}
