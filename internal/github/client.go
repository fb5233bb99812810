// internal/github/client.go
package github

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github-trends/internal/model"
)

// Options tune pacing and retries of the search client.
type Options struct {
	// RequestDelay is the minimum spacing between two requests issued by the client.
	RequestDelay time.Duration
	// BackoffBase seeds the exponential wait after a 403/429 without a retry-after signal.
	BackoffBase time.Duration
	// TransportBackoffBase seeds the exponential wait after a request that got no response.
	TransportBackoffBase time.Duration
	// MaxAttempts bounds the number of requests made for one search call.
	MaxAttempts int
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise.
	BaseURL string
}

// DefaultOptions match the public search API's budget of 30 requests per minute.
func DefaultOptions() Options {
	return Options{
		RequestDelay:         2100 * time.Millisecond,
		BackoffBase:          time.Second,
		TransportBackoffBase: 500 * time.Millisecond,
		MaxAttempts:          5,
	}
}

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
	opts   Options
	pacer  *pacer
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client.
func NewClient(token string, logger *slog.Logger, opts Options) (*Client, error) {
	var tc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(tc)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, err
		}
		gh.BaseURL = u
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	return &Client{
		gh:     gh,
		logger: logger,
		opts:   opts,
		pacer:  &pacer{interval: opts.RequestDelay},
	}, nil
}

// SearchRepositories issues one page of a repository search. Rate-limit and
// transport failures are retried; the caller owns pagination.
func (c *Client) SearchRepositories(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			Page:    q.Page,
			PerPage: q.PerPage,
		},
	}
	query := q.String()
	logger := c.logger.With("query", query, "page", q.Page)

	r := &request{maxAttempts: c.opts.MaxAttempts}
	for {
		switch r.state {
		case statePending:
			if err := c.pacer.Wait(ctx); err != nil {
				return nil, err
			}
			logger.Debug("Searching repositories", "attempt", r.attempt+1)
			result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
			r.observe(result, resp, err, c.opts)

		case stateBackingOff:
			logger.Warn("Search request failed, backing off",
				"attempt", r.attempt, "wait", r.delay.String(), "error", r.lastErr)
			if err := sleepContext(ctx, r.delay); err != nil {
				return nil, err
			}
			r.state = statePending

		case stateSucceeded:
			logger.Debug("Search page received",
				"total", r.result.GetTotal(), "items", len(r.result.Repositories),
				"incomplete", r.result.GetIncompleteResults())
			return toSearchResult(r.result), nil

		case stateFailed:
			logger.Error("Search request failed", "attempts", r.attempt, "error", r.err)
			return nil, r.err
		}
	}
}

// pacer spaces requests at least interval apart across all goroutines sharing the client.
type pacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func (p *pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.interval)
	p.mu.Unlock()

	return sleepContext(ctx, time.Until(slot))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// toInternalRepository translates a github.Repository object to our internal model.Repository.
func toInternalRepository(r *github.Repository) model.Repository {
	return model.Repository{
		GithubRepoID:    r.GetID(),
		FullName:        r.GetFullName(),
		Owner:           r.GetOwner().GetLogin(),
		OwnerType:       r.GetOwner().GetType(),
		Name:            r.GetName(),
		Description:     r.Description,
		URL:             r.GetHTMLURL(),
		Homepage:        r.Homepage,
		Language:        r.Language,
		Topics:          r.Topics,
		Fork:            r.GetFork(),
		Archived:        r.GetArchived(),
		StarsCount:      r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		RepoCreatedAt:   r.GetCreatedAt().Time,
		RepoPushedAt:    r.GetPushedAt().Time,
	}
}

func toSearchResult(r *github.RepositoriesSearchResult) *SearchResult {
	out := &SearchResult{
		Total:      r.GetTotal(),
		Incomplete: r.GetIncompleteResults(),
		Items:      make([]model.Repository, 0, len(r.Repositories)),
	}
	for _, repo := range r.Repositories {
		out.Items = append(out.Items, toInternalRepository(repo))
	}
	return out
}
