package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Policy is a reusable retry policy for external calls (generation, retrieval).
// The delay doubles after every failed attempt, with a random jitter fraction
// added on top so concurrent callers do not retry in lockstep.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      float64 // fraction of the delay, e.g. 0.2 adds up to 20%
}

// DefaultPolicy mirrors the backoff applied to comparable external calls
// elsewhere in the system: at most 3 attempts, base delay doubling.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Jitter: 0.2}
}

// Do runs fn until it succeeds, the attempts are exhausted, or ctx is done.
// The last error is returned.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		wait := delay
		if p.Jitter > 0 {
			wait += time.Duration(rand.Float64() * p.Jitter * float64(delay))
		}
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Dur("retry_in", wait).Msg("Retrying after failure")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return err
}
