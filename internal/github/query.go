// internal/github/query.go
package github

import (
	"fmt"
	"strings"
	"time"

	"github-trends/internal/model"
)

const dateLayout = "2006-01-02"

// SearchQuery describes one page of a partitioned repository search.
type SearchQuery struct {
	CreatedFrom time.Time
	CreatedTo   time.Time
	MinStars    int
	MaxStars    *int
	PushedAfter *time.Time
	Page        int
	PerPage     int
}

// String renders the search expression, e.g.
// "created:2024-01-01..2024-01-31 stars:100..200 pushed:>2024-06-01 is:public archived:false".
func (q SearchQuery) String() string {
	parts := []string{
		fmt.Sprintf("created:%s..%s", q.CreatedFrom.Format(dateLayout), q.CreatedTo.Format(dateLayout)),
	}
	if q.MaxStars != nil {
		parts = append(parts, fmt.Sprintf("stars:%d..%d", q.MinStars, *q.MaxStars))
	} else {
		parts = append(parts, fmt.Sprintf("stars:>=%d", q.MinStars))
	}
	if q.PushedAfter != nil {
		parts = append(parts, "pushed:>"+q.PushedAfter.Format(dateLayout))
	}
	parts = append(parts, "is:public", "archived:false")
	return strings.Join(parts, " ")
}

// SearchResult is one page of search results.
type SearchResult struct {
	Total      int
	Incomplete bool
	Items      []model.Repository
}
