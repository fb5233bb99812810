// internal/model/models.go
package model

import (
	"strings"
	"time"

	custom_errors "github-trends/internal/errors"
)

// TaskStatus is the state of a search task in the queue.
type TaskStatus string

const (
	TaskReady      TaskStatus = "ready"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskNeedsSplit TaskStatus = "needs_split"
	TaskDisabled   TaskStatus = "disabled"
)

// SnapshotSource tags where a snapshot's counters came from.
const SnapshotSource = "search"

// Repository is one search result item, translated from the GitHub API shape.
type Repository struct {
	GithubRepoID    int64
	FullName        string
	Owner           string
	OwnerType       string
	Name            string
	Description     *string
	URL             string
	Homepage        *string
	Language        *string
	Topics          []string
	Fork            bool
	Archived        bool
	StarsCount      int
	ForksCount      int
	OpenIssuesCount int
	RepoCreatedAt   time.Time
	RepoPushedAt    time.Time
}

// Validate checks the fields the store relies on before a write.
func (r *Repository) Validate() error {
	switch {
	case r.GithubRepoID <= 0:
		return &custom_errors.ErrInvalidRecord{Entity: "repository", Field: "id", Reason: "must be positive"}
	case r.FullName == "" || !strings.Contains(r.FullName, "/"):
		return &custom_errors.ErrInvalidRecord{Entity: "repository", Field: "full_name", Reason: "must be owner/name"}
	case r.Owner == "":
		return &custom_errors.ErrInvalidRecord{Entity: "repository", Field: "owner", Reason: "is required"}
	case r.URL == "":
		return &custom_errors.ErrInvalidRecord{Entity: "repository", Field: "url", Reason: "is required"}
	case r.StarsCount < 0 || r.ForksCount < 0 || r.OpenIssuesCount < 0:
		return &custom_errors.ErrInvalidRecord{Entity: "snapshot", Field: "counters", Reason: "must not be negative"}
	}
	return nil
}

// StarBand is an inclusive star-count range. Max nil means unbounded.
type StarBand struct {
	Min int
	Max *int
}

// Window is an inclusive calendar-date range on repository creation.
type Window struct {
	From time.Time
	To   time.Time
}

// Partition is one unit of the discovery search space.
type Partition struct {
	Window      Window
	Band        StarBand
	PushedAfter *time.Time
}

// Day truncates t to its calendar day in UTC, the single timezone used for snapshot dates.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
