// internal/runlog/runlog_test.go
package runlog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github-trends/internal/database"
	"github-trends/internal/database/dbtest"
)

func TestRecorder_Record(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := Entry{
		RunID:      uuid.New(),
		Endpoint:   EndpointDiscover,
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		OK:         true,
		Tasks:      2,
		Pages:      5,
		Upserted:   480,
	}

	t.Run("writes the entry", func(t *testing.T) {
		mockStore := new(dbtest.MockStore)
		rec := NewRecorder(mockStore, logger)

		mockStore.On("CreateRunLog", mock.Anything, mock.MatchedBy(func(p database.CreateRunLogParams) bool {
			return p.RunID == entry.RunID && p.Endpoint == "discover" && p.Ok &&
				p.Tasks == 2 && p.Pages == 5 && p.Upserted == 480 && !p.Message.Valid
		})).Return(nil).Once()

		rec.Record(context.Background(), entry)

		mockStore.AssertExpectations(t)
	})

	t.Run("still writes after the caller's context is cancelled", func(t *testing.T) {
		mockStore := new(dbtest.MockStore)
		rec := NewRecorder(mockStore, logger)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		mockStore.On("CreateRunLog", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).
			Return(nil).Once()

		failed := entry
		failed.OK = false
		failed.Message = "context canceled"
		rec.Record(ctx, failed)

		mockStore.AssertExpectations(t)
	})

	t.Run("swallows write errors", func(t *testing.T) {
		mockStore := new(dbtest.MockStore)
		rec := NewRecorder(mockStore, logger)

		mockStore.On("CreateRunLog", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		assert.NotPanics(t, func() { rec.Record(context.Background(), entry) })
		mockStore.AssertExpectations(t)
	})
}
