package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"

	"github.com/naka-gawa/github-tags/internal/domain"
)

// Outcome is the class a single attempt falls into.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeSecondaryLimit is a 403 carrying a Retry-After hint.
	OutcomeSecondaryLimit
	// OutcomePrimaryLimit is a 403 without a Retry-After hint.
	OutcomePrimaryLimit
	// OutcomeTransient is a 502, 503 or 504.
	OutcomeTransient
	OutcomeFatal
)

// Classification is the verdict on one attempt.
type Classification struct {
	Outcome    Outcome
	RetryAfter time.Duration
}

// RetryPolicy bounds and paces the attempts of a single logical request.
type RetryPolicy struct {
	MaxAttempts int
	// Backoff returns the wait after a transient failure on the given
	// zero-based attempt.
	Backoff  func(attempt int) time.Duration
	// Classify judges one attempt; now is the policy clock.
	Classify func(resp *github.Response, err error, now time.Time) Classification
	Sleep    func(ctx context.Context, d time.Duration) error
	Now      func() time.Time
}

// DefaultRetryPolicy allows three attempts with 2^attempt second backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff,
		Classify:    Classify,
		Sleep:       SleepContext,
		Now:         time.Now,
	}
}

// ExponentialBackoff waits 2^attempt seconds.
func ExponentialBackoff(attempt int) time.Duration {
	return time.Second << attempt
}

// SleepContext blocks for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Classify maps the result of a go-github call onto an Outcome using the raw
// status code and headers.
func Classify(resp *github.Response, err error, now time.Time) Classification {
	if err == nil {
		return Classification{Outcome: OutcomeSuccess}
	}
	if resp == nil || resp.Response == nil {
		return Classification{Outcome: OutcomeFatal}
	}
	switch resp.StatusCode {
	case http.StatusForbidden:
		if wait, ok := retryAfter(resp.Header, now); ok {
			return Classification{Outcome: OutcomeSecondaryLimit, RetryAfter: wait}
		}
		return Classification{Outcome: OutcomePrimaryLimit}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return Classification{Outcome: OutcomeTransient}
	}
	return Classification{Outcome: OutcomeFatal}
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(t.Sub(now), 0), true
	}
	return time.Second, true
}

// Execute runs call under the retry policy. op names the request in errors
// and log lines. go-github's own rate limit short-circuit is bypassed so
// every attempt reaches the API and is classified here.
func Execute[T any](ctx context.Context, p RetryPolicy, logger *clog.Logger, op string, call func(context.Context) (T, *github.Response, error)) (T, error) {
	var zero T
	ctx = context.WithValue(ctx, github.BypassRateLimitCheck, true)

	var lastStatus int
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		v, resp, err := call(ctx)
		c := p.Classify(resp, err, p.Now())
		if c.Outcome == OutcomeSuccess {
			return v, nil
		}
		lastStatus, lastErr = statusCode(resp), err

		switch c.Outcome {
		case OutcomeSecondaryLimit, OutcomeTransient:
		case OutcomePrimaryLimit:
			return zero, primaryLimitError(resp, p.Now())
		default:
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return zero, err
			}
			return zero, &domain.RequestError{Operation: op, StatusCode: lastStatus, Err: err}
		}
		if attempt == p.MaxAttempts-1 {
			break
		}

		wait := c.RetryAfter
		if c.Outcome == OutcomeTransient {
			wait = p.Backoff(attempt)
			logger.Warn("Transient server error, backing off", "operation", op, "attempt", attempt+1, "status", lastStatus, "wait", wait)
		} else {
			logger.Warn("Rate limited, sleeping", "operation", op, "attempt", attempt+1, "wait", wait)
		}
		if err := p.Sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
	return zero, &domain.RequestError{Operation: op, StatusCode: lastStatus, Attempts: p.MaxAttempts, Err: lastErr}
}

func primaryLimitError(resp *github.Response, now time.Time) *domain.RateLimitError {
	h := resp.Header
	reset, _ := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64)
	resetIn := max(time.Unix(reset, 0).Sub(now), 0)
	return &domain.RateLimitError{
		Remaining: h.Get("X-RateLimit-Remaining"),
		ResetIn:   resetIn.Truncate(time.Second),
	}
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
