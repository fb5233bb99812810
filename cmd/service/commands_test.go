// cmd/service/commands_test.go
package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"github-trends/internal/database"
)

func TestRenderTrends(t *testing.T) {
	var buf bytes.Buffer
	renderTrends(&buf, []database.ListTrendsRow{
		{
			FullName:     "octo/widget",
			Language:     pgtype.Text{String: "Go", Valid: true},
			StarsNow:     80,
			AbsGrowth14d: pgtype.Int4{Int32: 30, Valid: true},
			PctGrowth14d: pgtype.Float8{Float64: 0.6, Valid: true},
			Score:        14.1,
		},
		{FullName: "octo/newcomer", StarsNow: 7, IsNew: true},
	})

	out := buf.String()
	assert.Contains(t, out, "octo/widget")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "14.10")
	assert.Contains(t, out, "octo/newcomer")
	assert.Contains(t, out, "yes")
}

func TestSetLogLevel(t *testing.T) {
	v := new(slog.LevelVar)

	setLogLevel("debug", v)
	assert.Equal(t, slog.LevelDebug, v.Level())

	setLogLevel("warn", v)
	assert.Equal(t, slog.LevelWarn, v.Level())

	setLogLevel("nonsense", v)
	assert.Equal(t, slog.LevelInfo, v.Level())
}
