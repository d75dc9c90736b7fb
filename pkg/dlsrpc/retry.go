package dlsrpc

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultAttempts   = 3
	backoffInitial    = 200 * time.Millisecond
	backoffMax        = 5 * time.Second
	backoffMultiplier = 2.0
	callTimeout       = 10 * time.Second
)

// retry runs call up to attempts times, sleeping with backoff between
// transient failures. Each attempt gets its own timeout.
func retry(ctx context.Context, attempts int, bo *backoff, call func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		err = call(callCtx)
		cancel()
		if err == nil || isPermanentError(err) || i == attempts-1 {
			return err
		}

		wait := bo.next()
		slog.Debug("dlsrpc: call failed, will retry", "attempt", i+1, "err", err, "retry_in", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}

// isPermanentError reports whether retrying err cannot help: the request
// itself was rejected.
func isPermanentError(err error) bool {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.OutOfRange, codes.Unauthenticated,
		codes.PermissionDenied, codes.Unimplemented, codes.Canceled:
		return true
	}
	return false
}

// backoff implements truncated exponential backoff with jitter.
type backoff struct {
	initial time.Duration
	current time.Duration
}

func newBackoff(initial time.Duration) *backoff {
	return &backoff{initial: initial, current: initial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	// ±25 % jitter.
	jitter := time.Duration(float64(b.current) * 0.25 * (rand.Float64()*2 - 1)) //nolint:gosec // not crypto
	d += jitter
	if d < 0 {
		d = 0
	}

	b.current = time.Duration(float64(b.current) * backoffMultiplier)
	if b.current > backoffMax {
		b.current = backoffMax
	}
	return d
}
