package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/allisson/reportgate/internal/errors"
	ratelimitDomain "github.com/allisson/reportgate/internal/ratelimit/domain"
	"github.com/allisson/reportgate/internal/store"
)

const keyPrefix = "ratelimit"

// ScopePrefix returns the key prefix under which a subject's window counters
// are stored. Used for tenant deletion.
func ScopePrefix(subject string) string {
	return fmt.Sprintf("%s:%s:", keyPrefix, subject)
}

// casRetries bounds the compare-and-swap loop under contention. Each retry
// re-reads the counter, so a handful of attempts is enough for realistic
// concurrency on a single window key.
const casRetries = 5

type limiterUseCase struct {
	store  store.KVStore
	window time.Duration
	limit  int64
	now    func() time.Time
}

// NewLimiterUseCase creates a fixed-window limiter allowing limit requests
// per window per subject.
func NewLimiterUseCase(kvStore store.KVStore, window time.Duration, limit int64) Limiter {
	return &limiterUseCase{
		store:  kvStore,
		window: window,
		limit:  limit,
		now:    time.Now,
	}
}

// Allow increments the subject's counter for the current window using
// compare-and-swap, so concurrent requests across replicas never lose
// updates. The counter key carries the window start, making stale windows
// self-cleaning via TTL.
func (l *limiterUseCase) Allow(ctx context.Context, subject string) (ratelimitDomain.Result, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	resetAt := windowStart.Add(l.window)
	key := fmt.Sprintf("%s%d", ScopePrefix(subject), windowStart.Unix())

	// Keep the key around one extra window so a denied client can still be
	// shown the exhausted state right after the boundary.
	ttl := resetAt.Sub(now) + l.window

	result := ratelimitDomain.Result{
		Limit:        l.limit,
		ResetAtEpoch: resetAt.Unix(),
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		value, err := l.store.Get(ctx, key)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrNotFound) {
				return ratelimitDomain.Result{},
					fmt.Errorf("rate limit check: %w: %v", apperrors.ErrUnavailable, err)
			}

			// First request of the window.
			err = l.store.PutIfAbsent(ctx, key, []byte("1"), ttl)
			if apperrors.Is(err, apperrors.ErrConflict) {
				continue
			}
			if err != nil {
				return ratelimitDomain.Result{},
					fmt.Errorf("rate limit check: %w: %v", apperrors.ErrUnavailable, err)
			}
			result.Allowed = true
			result.Remaining = l.limit - 1
			return result, nil
		}

		count, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			return ratelimitDomain.Result{},
				fmt.Errorf("rate limit counter corrupt: %w: %v", apperrors.ErrUnavailable, err)
		}

		if count >= l.limit {
			result.Allowed = false
			result.Remaining = 0
			return result, nil
		}

		next := []byte(strconv.FormatInt(count+1, 10))
		err = l.store.CompareAndSwap(ctx, key, value, next, ttl)
		if apperrors.Is(err, apperrors.ErrConflict) {
			continue
		}
		if err != nil {
			return ratelimitDomain.Result{},
				fmt.Errorf("rate limit check: %w: %v", apperrors.ErrUnavailable, err)
		}
		result.Allowed = true
		result.Remaining = l.limit - (count + 1)
		return result, nil
	}

	return ratelimitDomain.Result{},
		fmt.Errorf("rate limit counter contention: %w", apperrors.ErrUnavailable)
}
