// internal/partition/job_test.go
package partition

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github-trends/internal/database"
	"github-trends/internal/database/dbtest"
	"github-trends/internal/runlog"
)

func TestSeedJob_Run(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	plan := Plan{Start: date(2025, 1, 1), MinStars: 100}

	t.Run("records created and skipped counts", func(t *testing.T) {
		mockStore := new(dbtest.MockStore)
		job := NewSeedJob(newTestSeeder(mockStore), plan, runlog.NewRecorder(mockStore, logger), logger)

		mockStore.On("ListSearchTaskSignatures", mock.Anything).Return([]database.ListSearchTaskSignaturesRow{}, nil).Once()
		mockStore.On("CreateSearchTask", mock.Anything, mock.Anything).Return(int64(1), nil)
		mockStore.On("CreateRunLog", mock.Anything, mock.MatchedBy(func(p database.CreateRunLogParams) bool {
			return p.Ok && p.Endpoint == runlog.EndpointSeed && p.Upserted == 12
		})).Return(nil).Once()

		res, err := job.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 12, res.Created)
		mockStore.AssertExpectations(t)
	})

	t.Run("records a failed run", func(t *testing.T) {
		mockStore := new(dbtest.MockStore)
		job := NewSeedJob(newTestSeeder(mockStore), plan, runlog.NewRecorder(mockStore, logger), logger)
		dbError := errors.New("db down")

		mockStore.On("ListSearchTaskSignatures", mock.Anything).Return([]database.ListSearchTaskSignaturesRow(nil), dbError).Once()
		mockStore.On("CreateRunLog", mock.Anything, mock.MatchedBy(func(p database.CreateRunLogParams) bool {
			return !p.Ok && p.Errors == 1
		})).Return(nil).Once()

		_, err := job.Run(context.Background())

		assert.ErrorIs(t, err, dbError)
		mockStore.AssertExpectations(t)
	})
}
