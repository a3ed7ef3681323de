package attendance

import "context"

type MonthFilter struct {
	// Department matches the department stored on the record at write time
	Department string
	EmployeeID string
	// EmployeeIDs limits results to these employees when non-empty
	EmployeeIDs []string
	Month       int
	Year        int
}

type AttendanceRepository interface {
	Get(ctx context.Context, key Key) (*Record, error)
	// Set is an unconditional upsert keyed by record.Key
	Set(ctx context.Context, record *Record) error
	Delete(ctx context.Context, key Key) error
	ListByMonth(ctx context.Context, filter MonthFilter) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
}
