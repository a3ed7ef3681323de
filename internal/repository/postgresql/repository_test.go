package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/fixtures"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/database"
	"github.com/khoa-hris/chamcong-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL and resets every table
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.Migrate(ctx, db))
	_, err = db.Exec(ctx, `TRUNCATE TABLE employees, attendance_records, correction_requests, symbols, settings`)
	require.NoError(t, err)
	return db
}

func TestAttendanceRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := postgresql.NewAttendanceRepository(db)

	key := attendance.Key{EmployeeID: "NV001", Day: 29, Month: 2, Year: 2028}
	now := time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, repo.Set(ctx, &attendance.Record{Key: key, Department: "Khoa Nội", Status: "X", UpdatedAt: now}))
	require.NoError(t, repo.Set(ctx, &attendance.Record{Key: key, Department: "Khoa Nội", Status: "P", UpdatedAt: now}))

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "P", got.Status)

	list, err := repo.ListByMonth(ctx, attendance.MonthFilter{Department: "Khoa Nội", Month: 2, Year: 2028})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// selecting by employee ignores the department written on the record
	list, err = repo.ListByMonth(ctx, attendance.MonthFilter{EmployeeIDs: []string{"NV001", "NV009"}, Month: 2, Year: 2028})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = repo.ListByMonth(ctx, attendance.MonthFilter{EmployeeIDs: []string{"NV009"}, Month: 2, Year: 2028})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Delete(ctx, key))
	_, err = repo.Get(ctx, key)
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	err = repo.Set(ctx, &attendance.Record{Key: attendance.Key{EmployeeID: "NV_1", Day: 1, Month: 1, Year: 2026}, Status: "X"})
	assert.ErrorIs(t, err, attendance.ErrInvalidKey)
}

func TestRequestRepository_ResolveIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := postgresql.NewRequestRepository(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	req := &correction.Request{
		ID: "0192-a", EmployeeID: "NV002", Department: "Khoa Nội", Day: 14, Month: 3, Year: 2026,
		RequestedCode: "X", Reason: "quên chấm", Status: correction.StatusPending, CreatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, req))

	dup := *req
	dup.ID = "0192-b"
	assert.ErrorIs(t, repo.Create(ctx, &dup), correction.ErrDuplicatePending)

	exists, err := repo.ExistsPending(ctx, "NV002", 14, 3, 2026)
	require.NoError(t, err)
	assert.True(t, exists)

	resolved, err := repo.Resolve(ctx, req.ID, correction.Resolution{Status: correction.StatusApproved, ResolvedBy: "giamdoc", At: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, resolved.Status)
	assert.False(t, resolved.IsRead)

	_, err = repo.Resolve(ctx, req.ID, correction.Resolution{Status: correction.StatusRejected, ResolvedBy: "giamdoc", At: now})
	assert.ErrorIs(t, err, correction.ErrRequestNotFound)

	count, err := repo.CountUnread(ctx, "Khoa Nội")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	marked, err := repo.MarkRead(ctx, "Khoa Nội", []string{req.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	list, err := repo.List(ctx, correction.ListFilter{Statuses: []correction.Status{correction.StatusApproved}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].NeedsApply())

	unapplied := correction.ListFilter{Statuses: []correction.Status{correction.StatusApproved}, UnappliedOnly: true}
	list, err = repo.List(ctx, unapplied)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.MarkApplied(ctx, req.ID, now.Add(2*time.Hour)))
	list, err = repo.List(ctx, unapplied)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxManager_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tx := postgresql.NewTxManager(db)
	employees := postgresql.NewEmployeeRepository(db)

	err := tx.WithTx(ctx, func(ctx context.Context) error {
		if err := employees.Create(ctx, &employee.Employee{ID: "NV900", Name: "Tạm", Department: "Khoa Nội"}); err != nil {
			return err
		}
		return employee.ErrEmployeeIDExists
	})
	require.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	_, err = employees.GetByID(ctx, "NV900")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestReferenceRepositories(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	symbols := postgresql.NewSymbolRepository(db)
	require.NoError(t, symbols.ReplaceAll(ctx, fixtures.DefaultSymbols()))
	catalog, err := symbols.List(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, len(fixtures.DefaultSymbols()))
	assert.Equal(t, "X", catalog[0].Code)
	assert.Equal(t, "0.5", catalog.Lookup()["X/2"].Val.String())

	cfgRepo := postgresql.NewSettingsRepository(db)
	_, err = cfgRepo.Get(ctx)
	assert.ErrorIs(t, err, settings.ErrSettingsNotFound)

	require.NoError(t, cfgRepo.Save(ctx, &settings.Settings{LockDate: 5, LimitHour: 9, UpdatedAt: time.Now()}))
	got, err := cfgRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.LockDate)
	assert.Equal(t, 9, got.LimitHour)
}
