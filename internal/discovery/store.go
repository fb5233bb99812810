// internal/discovery/store.go
package discovery

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"

	"github-trends/internal/database"
	"github-trends/internal/github"
	"github-trends/internal/model"
)

const maxErrorLen = 2000

// queryFor builds the search for a task's current cursor.
func queryFor(task database.SearchTask, pageSize int) github.SearchQuery {
	q := github.SearchQuery{
		CreatedFrom: task.WindowFrom,
		CreatedTo:   task.WindowTo,
		MinStars:    int(task.MinStars),
		Page:        int(task.Page),
		PerPage:     pageSize,
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if task.MaxStars.Valid {
		maxStars := int(task.MaxStars.Int32)
		q.MaxStars = &maxStars
	}
	if task.PushedAfter.Valid {
		pushed := task.PushedAfter.Time
		q.PushedAfter = &pushed
	}
	return q
}

// upsertItem writes one search item: its repository row and today's snapshot.
// A stale row still holding the item's slug under another id is renamed first,
// keeping id and slug one-to-one.
func upsertItem(ctx context.Context, q database.Querier, repo *model.Repository, seenAt time.Time) error {
	if _, err := q.ReleaseRepositoryName(ctx, database.ReleaseRepositoryNameParams{
		FullName: repo.FullName,
		ID:       repo.GithubRepoID,
	}); err != nil {
		return fmt.Errorf("release name %s: %w", repo.FullName, err)
	}

	if _, err := q.UpsertRepository(ctx, database.UpsertRepositoryParams{
		ID:            repo.GithubRepoID,
		FullName:      repo.FullName,
		OwnerLogin:    repo.Owner,
		OwnerType:     repo.OwnerType,
		Name:          repo.Name,
		Description:   textPtr(repo.Description),
		HtmlUrl:       repo.URL,
		Homepage:      textPtr(repo.Homepage),
		Language:      textPtr(repo.Language),
		Topics:        topics(repo.Topics),
		IsFork:        repo.Fork,
		IsArchived:    repo.Archived,
		RepoCreatedAt: timestamptz(repo.RepoCreatedAt),
		RepoPushedAt:  timestamptz(repo.RepoPushedAt),
		SeenAt:        seenAt,
	}); err != nil {
		return fmt.Errorf("upsert repository: %w", err)
	}

	if _, err := q.UpsertSnapshot(ctx, database.UpsertSnapshotParams{
		RepoID:     repo.GithubRepoID,
		CapturedAt: seenAt,
		CapturedOn: model.Day(seenAt),
		Stars:      int32(repo.StarsCount),
		Forks:      int32(repo.ForksCount),
		OpenIssues: int32(repo.OpenIssuesCount),
		Source:     model.SnapshotSource,
	}); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func textOf(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func textPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return textOf(*s)
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

func topics(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
