// internal/partition/partition.go

// Package partition divides the repository search space into month windows
// crossed with star bands, small enough for the search API's 1,000-result cap.
package partition

import (
	"time"

	"github-trends/internal/model"
)

func bound(n int) *int { return &n }

// DefaultBands is the ordered star-band sequence crossed with every window.
var DefaultBands = []model.StarBand{
	{Min: 100, Max: bound(200)},
	{Min: 201, Max: bound(500)},
	{Min: 501, Max: bound(1000)},
	{Min: 1001, Max: bound(5000)},
	{Min: 5001, Max: bound(20000)},
	{Min: 20001, Max: nil},
}

// MonthWindows returns consecutive calendar-month windows from start through
// now. The first window begins on start's day; every window ends on the last
// day of its month, so the current month keeps a stable signature while it is
// still in progress.
func MonthWindows(start, now time.Time) []model.Window {
	cur := model.Day(start)
	today := model.Day(now)

	var windows []model.Window
	for !cur.After(today) {
		firstOfNext := time.Date(cur.Year(), cur.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		windows = append(windows, model.Window{From: cur, To: firstOfNext.AddDate(0, 0, -1)})
		cur = firstOfNext
	}
	return windows
}

// Bands applies the global star floor to bands: a band entirely below minStars
// is dropped, and the rest start at no less than minStars.
func Bands(bands []model.StarBand, minStars int) []model.StarBand {
	out := make([]model.StarBand, 0, len(bands))
	for _, b := range bands {
		if b.Max != nil && *b.Max < minStars {
			continue
		}
		eff := b
		if minStars > eff.Min {
			eff.Min = minStars
		}
		out = append(out, eff)
	}
	return out
}

// Plan is the input of a seeding pass.
type Plan struct {
	Start       time.Time
	PushedAfter *time.Time
	MinStars    int
	Bands       []model.StarBand
}

// Partitions returns the cross product of month windows and effective bands,
// windows outermost.
func (p Plan) Partitions(now time.Time) []model.Partition {
	bands := p.Bands
	if bands == nil {
		bands = DefaultBands
	}
	effective := Bands(bands, p.MinStars)

	var pushed *time.Time
	if p.PushedAfter != nil {
		d := model.Day(*p.PushedAfter)
		pushed = &d
	}

	var out []model.Partition
	for _, w := range MonthWindows(p.Start, now) {
		for _, b := range effective {
			out = append(out, model.Partition{Window: w, Band: b, PushedAfter: pushed})
		}
	}
	return out
}
