package backup

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
)

func TestWriteReadSQLite(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC)
	reason := "missing paperwork"
	director := "director-1"

	snap := Snapshot{
		Employees: []employee.Employee{
			{ID: "NV01", Name: "Nguyễn Văn An", Department: "Khoa Nội", Position: "Bác sĩ", CreatedAt: at, UpdatedAt: at},
		},
		Records: []attendance.Record{
			{Key: attendance.Key{EmployeeID: "NV01", Day: 14, Month: 10, Year: 2026}, Department: "Khoa Nội", Status: "X", UpdatedAt: at},
		},
		Requests: []correction.Request{
			{
				ID: "r1", EmployeeID: "NV01", EmployeeName: "Nguyễn Văn An", Department: "Khoa Nội",
				Day: 1, Month: 10, Year: 2026, RequestedCode: "P", Reason: "sick",
				Status: correction.StatusRejected, IsRead: true, RejectReason: &reason,
				SubmittedBy: "khoa-noi", ResolvedBy: &director, CreatedAt: at,
			},
			{
				ID: "r2", EmployeeID: "NV01", EmployeeName: "Nguyễn Văn An", Department: "Khoa Nội",
				Day: 2, Month: 10, Year: 2026, RequestedCode: "X", Reason: "late entry",
				Status: correction.StatusApproved, SubmittedBy: "khoa-noi", ResolvedBy: &director,
				CreatedAt: at.Add(time.Minute), AppliedAt: &at,
			},
		},
		Symbols: symbol.Catalog{
			{Code: "X", Label: "Đi làm", Val: decimal.NewFromInt(1), Type: symbol.CategorySalary},
			{Code: "X/2", Label: "Nửa ngày", Val: decimal.RequireFromString("0.5"), Type: symbol.CategorySalary, Order: 1},
		},
		Settings:   settings.Settings{LockDate: 5, LimitHour: 9, UpdatedAt: at},
		BackupDate: at,
	}

	path := filepath.Join(t.TempDir(), "backup.db")
	require.NoError(t, WriteSQLite(ctx, path, snap))

	got, err := ReadSQLite(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, snap.Employees, got.Employees)
	assert.Equal(t, snap.Records, got.Records)
	require.Len(t, got.Requests, 2)
	assert.Equal(t, reason, *got.Requests[0].RejectReason)
	assert.True(t, got.Requests[0].IsRead)
	assert.Nil(t, got.Requests[0].AppliedAt)
	require.NotNil(t, got.Requests[1].AppliedAt)
	assert.True(t, at.Equal(*got.Requests[1].AppliedAt))
	require.Len(t, got.Symbols, 2)
	assert.True(t, got.Symbols[1].Val.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, snap.Settings, got.Settings)
	assert.True(t, at.Equal(got.BackupDate))
}

func TestWriteSQLite_RefusesExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.db")
	snap := Snapshot{Settings: settings.Default()}

	require.NoError(t, WriteSQLite(ctx, path, snap))
	assert.Error(t, WriteSQLite(ctx, path, snap))
}
