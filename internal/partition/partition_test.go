// internal/partition/partition_test.go
package partition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-trends/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthWindows(t *testing.T) {
	t.Run("spans calendar months through the current one", func(t *testing.T) {
		windows := MonthWindows(date(2024, 11, 15), time.Date(2025, 2, 3, 18, 0, 0, 0, time.UTC))

		require.Len(t, windows, 4)
		assert.Equal(t, model.Window{From: date(2024, 11, 15), To: date(2024, 11, 30)}, windows[0])
		assert.Equal(t, model.Window{From: date(2024, 12, 1), To: date(2024, 12, 31)}, windows[1])
		assert.Equal(t, model.Window{From: date(2025, 1, 1), To: date(2025, 1, 31)}, windows[2])
		assert.Equal(t, model.Window{From: date(2025, 2, 1), To: date(2025, 2, 28)}, windows[3])
	})

	t.Run("is stable across days of the same month", func(t *testing.T) {
		a := MonthWindows(date(2025, 1, 1), date(2025, 3, 2))
		b := MonthWindows(date(2025, 1, 1), date(2025, 3, 29))
		assert.Equal(t, a, b)
	})

	t.Run("is empty when start is in the future", func(t *testing.T) {
		assert.Empty(t, MonthWindows(date(2026, 1, 1), date(2025, 1, 1)))
	})
}

func TestBands(t *testing.T) {
	t.Run("keeps every band at the default floor", func(t *testing.T) {
		assert.Equal(t, DefaultBands, Bands(DefaultBands, 100))
	})

	t.Run("drops bands below the floor and raises the straddling one", func(t *testing.T) {
		got := Bands(DefaultBands, 300)

		require.Len(t, got, 5)
		assert.Equal(t, 300, got[0].Min)
		assert.Equal(t, 500, *got[0].Max)
		assert.Equal(t, 501, got[1].Min)
		assert.Nil(t, got[4].Max)
	})

	t.Run("keeps only the open band above every bound", func(t *testing.T) {
		got := Bands(DefaultBands, 50000)

		require.Len(t, got, 1)
		assert.Equal(t, 50000, got[0].Min)
		assert.Nil(t, got[0].Max)
	})
}

func TestPlan_Partitions(t *testing.T) {
	pushed := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	plan := Plan{Start: date(2025, 1, 1), MinStars: 100, PushedAfter: &pushed}

	parts := plan.Partitions(date(2025, 2, 10))

	require.Len(t, parts, 2*len(DefaultBands))
	assert.Equal(t, date(2025, 1, 1), parts[0].Window.From)
	assert.Equal(t, date(2025, 2, 1), parts[len(DefaultBands)].Window.From)
	require.NotNil(t, parts[0].PushedAfter)
	assert.Equal(t, date(2024, 6, 1), *parts[0].PushedAfter)
}
