package backoff

import (
	"context"
	"math"
	"time"
)

type BackoffStrategy interface {
	GetBackoffDuration(int, time.Duration, time.Duration) time.Duration
}

type Backoff struct {
	LastDuration time.Duration
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
	count        int
	strategy     BackoffStrategy
}

func NewBackoff(strategy BackoffStrategy, start time.Duration, limit time.Duration) *Backoff {
	backoff := Backoff{strategy: strategy, start: start, limit: limit}
	backoff.Reset()
	return &backoff
}

func (b *Backoff) Reset() {
	b.count = 0
	b.LastDuration = 0
	b.NextDuration = b.getNextDuration()
}

// Count returns how many times Backoff has slept since the last Reset
func (b *Backoff) Count() int {
	return b.count
}

func (b *Backoff) Backoff(ctx context.Context) (err error) {
	sleepCtx, cancelSleep := context.WithTimeout(ctx, b.NextDuration)
	<-sleepCtx.Done()
	cancelSleep()
	if sleepCtx.Err() == context.DeadlineExceeded {
		b.count++
		b.LastDuration = b.NextDuration
		b.NextDuration = b.getNextDuration()
		return nil
	}
	return sleepCtx.Err()
}

func (b *Backoff) getNextDuration() time.Duration {
	backoff := b.strategy.GetBackoffDuration(b.count, b.start, b.LastDuration)
	if b.limit > 0 && backoff > b.limit {
		backoff = b.limit
	}
	return backoff
}

type exponential struct{}

func (exponential) GetBackoffDuration(backoffCount int, start time.Duration, lastBackoff time.Duration) time.Duration {
	period := int64(math.Pow(2, float64(backoffCount)))
	return time.Duration(period) * start
}

func NewExponential(start time.Duration, limit time.Duration) *Backoff {
	return NewBackoff(exponential{}, start, limit)
}

type linear struct{}

func (linear) GetBackoffDuration(backoffCount int, start time.Duration, lastBackoff time.Duration) time.Duration {
	return time.Duration(backoffCount+1) * start
}

func NewLinear(start time.Duration, limit time.Duration) *Backoff {
	return NewBackoff(linear{}, start, limit)
}

// Retry calls fn until it succeeds, returns an error that shouldRetry rejects,
// or maxAttempts calls were made. The last error is returned.
func Retry(ctx context.Context, b *Backoff, maxAttempts int, shouldRetry func(error) bool, fn func() error) error {
	b.Reset()
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= maxAttempts || (shouldRetry != nil && !shouldRetry(err)) {
			return err
		}
		if berr := b.Backoff(ctx); berr != nil {
			return err
		}
	}
}
