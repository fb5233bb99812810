// internal/scoring/growth.go
package scoring

import (
	"math"
	"time"
)

// Pair is a repository's latest star count and, when history reaches back far
// enough, the count from the lookback snapshot.
type Pair struct {
	RepoID         int64
	StarsNow       int
	StarsPrev      *int
	PrevCapturedAt *time.Time
}

// Growth is the trend computed from one Pair.
type Growth struct {
	AbsGrowth *int
	PctGrowth *float64
	Score     float64
	IsNew     bool
}

// Compute derives growth from a pair. Without a previous count the repository
// is new and has no growth; otherwise
//
//	abs   = now - prev
//	pct   = abs / max(prev, 1)
//	score = abs * ln(1 + max(pct, 0))   when abs > 0, else 0
func Compute(p Pair) Growth {
	if p.StarsPrev == nil {
		return Growth{IsNew: true}
	}

	prev := *p.StarsPrev
	abs := p.StarsNow - prev
	pct := float64(abs) / float64(max(prev, 1))

	var score float64
	if abs > 0 {
		score = float64(abs) * math.Log1p(math.Max(pct, 0))
	}
	return Growth{AbsGrowth: &abs, PctGrowth: &pct, Score: score}
}
