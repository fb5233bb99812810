// internal/github/retry.go
package github

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v62/github"

	custom_errors "github-trends/internal/errors"
)

// maxRetryWait caps any single wait derived from the API's own reset signal.
const maxRetryWait = 2 * time.Minute

type requestState int

const (
	statePending requestState = iota
	stateBackingOff
	stateSucceeded
	stateFailed
)

func (s requestState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateBackingOff:
		return "backing-off"
	case stateSucceeded:
		return "succeeded"
	default:
		return "failed-terminal"
	}
}

// request is the retry state of a single search call. The attempt counter and
// the next delay are explicit so the loop in SearchRepositories stays flat.
type request struct {
	state       requestState
	attempt     int
	maxAttempts int
	delay       time.Duration
	result      *github.RepositoriesSearchResult
	lastErr     error
	err         error
}

// observe records the outcome of one attempt and moves to the next state.
func (r *request) observe(result *github.RepositoriesSearchResult, resp *github.Response, err error, opts Options) {
	attempt := r.attempt
	r.attempt++

	if err == nil {
		r.result = result
		r.state = stateSucceeded
		return
	}
	r.lastErr = err

	if ctxErr := contextError(err); ctxErr != nil {
		r.fail(ctxErr)
		return
	}

	if wait, limited := rateLimitWait(err, resp, attempt, opts.BackoffBase); limited {
		if r.attempt >= r.maxAttempts {
			r.fail(&custom_errors.RateLimitExhaustedError{Attempts: r.attempt, Last: err})
			return
		}
		r.backoff(wait)
		return
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		r.fail(statusError(errResp))
		return
	}
	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		r.fail(&custom_errors.SearchStatusError{StatusCode: http.StatusAccepted, Body: string(accepted.Raw)})
		return
	}

	// No response at all: network, DNS, TLS, or a body that could not be read.
	if r.attempt >= r.maxAttempts {
		r.fail(&custom_errors.TransportExhaustedError{Attempts: r.attempt, Last: err})
		return
	}
	r.backoff(exponential(opts.TransportBackoffBase, attempt))
}

func (r *request) backoff(d time.Duration) {
	r.delay = d
	r.state = stateBackingOff
}

func (r *request) fail(err error) {
	r.err = err
	r.state = stateFailed
}

// rateLimitWait reports whether err is a 403/429 rate-limit response and how
// long to wait before the next attempt.
func rateLimitWait(err error, resp *github.Response, attempt int, base time.Duration) (time.Duration, bool) {
	var primary *github.RateLimitError
	if errors.As(err, &primary) {
		if wait := time.Until(primary.Rate.Reset.Time); wait > 0 {
			return min(wait, maxRetryWait), true
		}
		return exponential(base, attempt), true
	}

	var secondary *github.AbuseRateLimitError
	if errors.As(err, &secondary) {
		if secondary.RetryAfter != nil && *secondary.RetryAfter > 0 {
			return min(*secondary.RetryAfter, maxRetryWait), true
		}
		return exponential(base, attempt), true
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		code := errResp.Response.StatusCode
		if code == http.StatusForbidden || code == http.StatusTooManyRequests {
			if wait, ok := retryAfter(errResp.Response.Header); ok {
				return min(wait, maxRetryWait), true
			}
			return exponential(base, attempt), true
		}
	}
	return 0, false
}

// retryAfter reads the Retry-After header as seconds or an HTTP date.
func retryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait, true
		}
		return 0, true
	}
	return 0, false
}

func exponential(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<attempt)
}

func statusError(errResp *github.ErrorResponse) error {
	body := errResp.Message
	for _, e := range errResp.Errors {
		if e.Message != "" {
			body += "; " + e.Message
		}
	}
	code := 0
	if errResp.Response != nil {
		code = errResp.Response.StatusCode
	}
	return &custom_errors.SearchStatusError{StatusCode: code, Body: body}
}

func contextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return context.DeadlineExceeded
	}
	return nil
}
