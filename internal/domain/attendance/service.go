package attendance

import "context"

type AttendanceService interface {
	// SetStatus applies a direct edit through the lock policy
	SetStatus(ctx context.Context, req SetStatusRequest) (RecordResponse, error)
	// Write stores a status without any policy check. Used when applying approved corrections.
	Write(ctx context.Context, key Key, department, code string) error
	BulkMarkToday(ctx context.Context, req BulkMarkRequest) (BulkMarkResponse, error)

	MonthlyTotals(ctx context.Context, employeeID string, month, year int) (TotalsResponse, error)
	DepartmentTotals(ctx context.Context, department string, month, year int) ([]TotalsResponse, error)
	MonthGrid(ctx context.Context, req GridRequest) (GridResponse, error)
	AbsentReport(ctx context.Context, req AbsentReportRequest) (AbsentReportResponse, error)
}
