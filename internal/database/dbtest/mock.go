// Package dbtest provides a testify mock of database.Store shared by the
// driver and handler tests.
package dbtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github-trends/internal/database"
)

// MockStore is a mock of the database.Store interface. ExecTx invokes the
// callback with the mock itself, so calls made inside a transaction are
// matched like any other call.
type MockStore struct {
	mock.Mock
}

var _ database.Store = (*MockStore)(nil)

func (m *MockStore) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	return fn(m)
}

func (m *MockStore) ClaimSearchTasks(ctx context.Context, maxTasks int32) ([]database.SearchTask, error) {
	args := m.Called(ctx, maxTasks)
	return args.Get(0).([]database.SearchTask), args.Error(1)
}

func (m *MockStore) CompleteSearchTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) CountSearchTasksByStatus(ctx context.Context) ([]database.CountSearchTasksByStatusRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.CountSearchTasksByStatusRow), args.Error(1)
}

func (m *MockStore) CreateRunLog(ctx context.Context, arg database.CreateRunLogParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockStore) CreateSearchTask(ctx context.Context, arg database.CreateSearchTaskParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) FailSearchTask(ctx context.Context, arg database.FailSearchTaskParams) (string, error) {
	args := m.Called(ctx, arg)
	return args.String(0), args.Error(1)
}

func (m *MockStore) GetLatestSnapshot(ctx context.Context, repoID int64) (database.Snapshot, error) {
	args := m.Called(ctx, repoID)
	return args.Get(0).(database.Snapshot), args.Error(1)
}

func (m *MockStore) GetLatestSnapshotOnOrBefore(ctx context.Context, arg database.GetLatestSnapshotOnOrBeforeParams) (database.Snapshot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Snapshot), args.Error(1)
}

func (m *MockStore) GetRepository(ctx context.Context, id int64) (database.Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *MockStore) ListRepositoryIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStore) ListRunLogs(ctx context.Context, limit int32) ([]database.RunLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]database.RunLog), args.Error(1)
}

func (m *MockStore) ListSearchTaskSignatures(ctx context.Context) ([]database.ListSearchTaskSignaturesRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.ListSearchTaskSignaturesRow), args.Error(1)
}

func (m *MockStore) ListSnapshotPairs(ctx context.Context, lookbackDays int32) ([]database.ListSnapshotPairsRow, error) {
	args := m.Called(ctx, lookbackDays)
	return args.Get(0).([]database.ListSnapshotPairsRow), args.Error(1)
}

func (m *MockStore) ListSnapshotsByRepository(ctx context.Context, arg database.ListSnapshotsByRepositoryParams) ([]database.Snapshot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.Snapshot), args.Error(1)
}

func (m *MockStore) ListTrends(ctx context.Context, arg database.ListTrendsParams) ([]database.ListTrendsRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.ListTrendsRow), args.Error(1)
}

func (m *MockStore) MarkSearchTaskNeedsSplit(ctx context.Context, arg database.MarkSearchTaskNeedsSplitParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockStore) ReleaseRepositoryName(ctx context.Context, arg database.ReleaseRepositoryNameParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) RequeueSearchTask(ctx context.Context, arg database.RequeueSearchTaskParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockStore) ResetSearchTask(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) SetSearchTaskPage(ctx context.Context, arg database.SetSearchTaskPageParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockStore) UpsertRepository(ctx context.Context, arg database.UpsertRepositoryParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *MockStore) UpsertSnapshot(ctx context.Context, arg database.UpsertSnapshotParams) (database.Snapshot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Snapshot), args.Error(1)
}

func (m *MockStore) UpsertTrend(ctx context.Context, arg database.UpsertTrendParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
