package fetcher

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/quantmind-br/repocontext/internal/domain"
)

// Retrier repeats retryable failures with jittered exponential backoff. A
// Retry-After hint from the server stretches the next wait, up to the
// maximum interval.
type Retrier struct {
	maxRetries int
	initial    time.Duration
	ceiling    time.Duration
}

// RetrierOptions configures a Retrier. Zero values mean three retries with
// waits starting at one second and capped at thirty.
type RetrierOptions struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NewRetrier creates a Retrier
func NewRetrier(opts RetrierOptions) *Retrier {
	r := &Retrier{
		maxRetries: opts.MaxRetries,
		initial:    opts.InitialInterval,
		ceiling:    opts.MaxInterval,
	}
	if r.maxRetries <= 0 {
		r.maxRetries = 3
	}
	if r.initial <= 0 {
		r.initial = time.Second
	}
	if r.ceiling <= 0 {
		r.ceiling = 30 * time.Second
	}
	if r.ceiling < r.initial {
		r.ceiling = r.initial
	}
	return r
}

// hintedBackOff lets a server hint override a shorter computed interval
type hintedBackOff struct {
	backoff.BackOff
	ceiling time.Duration
	hint    time.Duration
}

func (h *hintedBackOff) NextBackOff() time.Duration {
	next := h.BackOff.NextBackOff()
	hint := h.hint
	h.hint = 0
	if next == backoff.Stop {
		return next
	}
	return max(next, min(hint, h.ceiling))
}

func (r *Retrier) newBackOff() *hintedBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.initial
	exp.MaxInterval = r.ceiling
	exp.MaxElapsedTime = 0
	exp.Reset()

	return &hintedBackOff{
		BackOff: backoff.WithMaxRetries(exp, uint64(r.maxRetries)),
		ceiling: r.ceiling,
	}
}

// RetryWithValue runs operation until it succeeds, fails permanently, or the
// retries run out. The value from the last attempt is returned with its error.
func RetryWithValue[T any](ctx context.Context, r *Retrier, operation func() (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)

	b := r.newBackOff()
	err := backoff.Retry(func() error {
		var err error
		result, err = operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		var retryable *domain.RetryableError
		if errors.As(err, &retryable) {
			b.hint = time.Duration(retryable.RetryAfter) * time.Second
		}
		return err
	}, backoff.WithContext(b, ctx))

	if err != nil {
		return result, lastErr
	}
	return result, nil
}

// ShouldRetryStatus reports whether a response status is worth another attempt:
// rate limiting, gateway failures, and Cloudflare's 52x range.
func ShouldRetryStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return statusCode >= 520 && statusCode <= 530
}

// ParseRetryAfter reads a Retry-After value in delay-seconds or HTTP-date form.
// Missing, malformed, and past values yield zero.
func ParseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(max(seconds, 0)) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}
