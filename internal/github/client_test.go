// internal/github/client_test.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "github-trends/internal/errors"
)

const searchBody = `{
	"total_count": 2,
	"incomplete_results": false,
	"items": [
		{"id": 1, "name": "widget", "full_name": "octo/widget", "owner": {"login": "octo", "type": "Organization"},
		 "html_url": "https://github.com/octo/widget", "language": "Go", "topics": ["cli"],
		 "stargazers_count": 150, "forks_count": 3, "open_issues_count": 1,
		 "created_at": "2024-01-05T00:00:00Z", "pushed_at": "2024-02-01T00:00:00Z"},
		{"id": 2, "name": "gadget", "full_name": "octo/gadget", "owner": {"login": "octo", "type": "Organization"},
		 "html_url": "https://github.com/octo/gadget", "stargazers_count": 120}
	]
}`

func testOptions() Options {
	return Options{
		RequestDelay:         0,
		BackoffBase:          time.Millisecond,
		TransportBackoffBase: time.Millisecond,
		MaxAttempts:          5,
	}
}

// setupTestClient creates a httptest server and a client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler, opts Options) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts.BaseURL = server.URL
	client, err := NewClient("", logger, opts)
	require.NoError(t, err)

	return client, server
}

func testQuery() SearchQuery {
	maxStars := 200
	return SearchQuery{
		CreatedFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedTo:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		MinStars:    100,
		MaxStars:    &maxStars,
		Page:        2,
		PerPage:     100,
	}
}

func TestSearchQuery_String(t *testing.T) {
	q := testQuery()
	assert.Equal(t, "created:2024-01-01..2024-01-31 stars:100..200 is:public archived:false", q.String())

	pushed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	q.MaxStars = nil
	q.MinStars = 20001
	q.PushedAfter = &pushed
	assert.Equal(t, "created:2024-01-01..2024-01-31 stars:>=20001 pushed:>2024-06-01 is:public archived:false", q.String())
}

func TestClient_SearchRepositories(t *testing.T) {
	t.Run("succeeds on first try", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			assert.Equal(t, "/search/repositories", r.URL.Path)
			assert.Equal(t, testQuery().String(), r.URL.Query().Get("q"))
			assert.Equal(t, "stars", r.URL.Query().Get("sort"))
			assert.Equal(t, "desc", r.URL.Query().Get("order"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, searchBody)
		})
		client, server := setupTestClient(t, handler, testOptions())
		defer server.Close()

		res, err := client.SearchRepositories(context.Background(), testQuery())

		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
		assert.Equal(t, 2, res.Total)
		assert.False(t, res.Incomplete)
		require.Len(t, res.Items, 2)
		assert.Equal(t, int64(1), res.Items[0].GithubRepoID)
		assert.Equal(t, "octo/widget", res.Items[0].FullName)
		assert.Equal(t, "Organization", res.Items[0].OwnerType)
		assert.Equal(t, 150, res.Items[0].StarsCount)
		assert.Equal(t, []string{"cli"}, res.Items[0].Topics)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), res.Items[0].RepoPushedAt.UTC())
	})

	t.Run("honors retry-after on 429 and succeeds", func(t *testing.T) {
		var requestCount int32
		var first, second atomic.Int64
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				first.Store(time.Now().UnixNano())
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintln(w, `{"message": "too many requests"}`)
				return
			}
			second.Store(time.Now().UnixNano())
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, searchBody)
		})
		client, server := setupTestClient(t, handler, testOptions())
		defer server.Close()

		_, err := client.SearchRepositories(context.Background(), testQuery())

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
		waited := time.Duration(second.Load() - first.Load())
		assert.GreaterOrEqual(t, waited, 900*time.Millisecond, "client should wait for retry-after")
	})

	t.Run("backs off exponentially on 403 without retry-after", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count <= 2 {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprintln(w, `{"message": "slow down"}`)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, searchBody)
		})
		opts := testOptions()
		opts.BackoffBase = 20 * time.Millisecond
		client, server := setupTestClient(t, handler, opts)
		defer server.Close()

		start := time.Now()
		_, err := client.SearchRepositories(context.Background(), testQuery())
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&requestCount))
		// 20ms * 2^0 + 20ms * 2^1
		assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
	})

	t.Run("handles primary rate limit error", func(t *testing.T) {
		var requestCount int32
		resetTime := time.Now().Add(1 * time.Second)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				w.Header().Set("X-RateLimit-Limit", "30")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))
				w.WriteHeader(http.StatusForbidden) // RateLimitError is a 403
				fmt.Fprintln(w, `{"message": "API rate limit exceeded"}`)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, searchBody)
		})
		client, server := setupTestClient(t, handler, testOptions())
		defer server.Close()

		_, err := client.SearchRepositories(context.Background(), testQuery())

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
	})

	t.Run("fails after max attempts on persistent rate limiting", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprintln(w, `{"message": "too many requests"}`)
		})
		client, server := setupTestClient(t, handler, testOptions())
		defer server.Close()

		_, err := client.SearchRepositories(context.Background(), testQuery())

		require.Error(t, err)
		var exhausted *custom_errors.RateLimitExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, 5, exhausted.Attempts)
		assert.True(t, custom_errors.IsRetryExhausted(err))
		assert.Equal(t, int32(5), atomic.LoadInt32(&requestCount))
	})

	t.Run("does not retry other statuses", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprintln(w, `{"message": "Validation Failed", "errors": [{"message": "bad query"}]}`)
		})
		client, server := setupTestClient(t, handler, testOptions())
		defer server.Close()

		_, err := client.SearchRepositories(context.Background(), testQuery())

		require.Error(t, err)
		var statusErr *custom_errors.SearchStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
		assert.Contains(t, statusErr.Body, "Validation Failed")
		assert.Contains(t, statusErr.Body, "bad query")
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	})

	t.Run("does not retry server errors", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})
		client, server := setupTestClient(t, handler, testOptions())
		defer server.Close()

		_, err := client.SearchRepositories(context.Background(), testQuery())

		var statusErr *custom_errors.SearchStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
	})

	t.Run("retries transport failures up to the ceiling", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close() // nothing listens on baseURL anymore

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		opts := testOptions()
		opts.BaseURL = baseURL
		client, err := NewClient("", logger, opts)
		require.NoError(t, err)

		_, err = client.SearchRepositories(context.Background(), testQuery())

		var exhausted *custom_errors.TransportExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, 5, exhausted.Attempts)
	})

	t.Run("stops waiting when the context is cancelled", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
		})
		client, server := setupTestClient(t, handler, testOptions())
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := client.SearchRepositories(ctx, testQuery())

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestPacer_SpacesRequests(t *testing.T) {
	p := &pacer{interval: 30 * time.Millisecond}
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(ctx))
	}

	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	_, ok := retryAfter(h)
	assert.False(t, ok)

	h.Set("Retry-After", "7")
	d, ok := retryAfter(h)
	assert.True(t, ok)
	assert.Equal(t, 7*time.Second, d)

	h.Set("Retry-After", "soon")
	_, ok = retryAfter(h)
	assert.False(t, ok)
}
