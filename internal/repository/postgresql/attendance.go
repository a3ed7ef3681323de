package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `employee_id, day, month, year, department, status, updated_at`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(&rec.EmployeeID, &rec.Day, &rec.Month, &rec.Year, &rec.Department, &rec.Status, &rec.UpdatedAt)
	return rec, err
}

// Get implements attendance.AttendanceRepository.
func (a *attendanceRepository) Get(ctx context.Context, key attendance.Key) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND day = $2 AND month = $3 AND year = $4`

	rec, err := scanRecord(q.QueryRow(ctx, query, key.EmployeeID, key.Day, key.Month, key.Year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get attendance %s: %w", key, err)
	}
	return &rec, nil
}

// Set implements attendance.AttendanceRepository.
func (a *attendanceRepository) Set(ctx context.Context, record *attendance.Record) error {
	if err := record.Key.Validate(); err != nil {
		return err
	}
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (employee_id, day, month, year, department, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, year, month, day)
		DO UPDATE SET department = EXCLUDED.department, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`
	_, err := q.Exec(ctx, query,
		record.EmployeeID, record.Day, record.Month, record.Year,
		record.Department, record.Status, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance %s: %w", record.Key, err)
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, key attendance.Key) error {
	q := GetQuerier(ctx, a.db)

	_, err := q.Exec(ctx,
		`DELETE FROM attendance_records WHERE employee_id = $1 AND day = $2 AND month = $3 AND year = $4`,
		key.EmployeeID, key.Day, key.Month, key.Year,
	)
	if err != nil {
		return fmt.Errorf("failed to delete attendance %s: %w", key, err)
	}
	return nil
}

// ListByMonth implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByMonth(ctx context.Context, filter attendance.MonthFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	ids := filter.EmployeeIDs
	if ids == nil {
		ids = []string{}
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE month = $1 AND year = $2
		  AND ($3 = '' OR department = $3)
		  AND ($4 = '' OR employee_id = $4)
		  AND (cardinality($5::text[]) = 0 OR employee_id = ANY($5::text[]))
		ORDER BY employee_id, day`

	return a.list(ctx, q, query, filter.Month, filter.Year, filter.Department, filter.EmployeeID, ids)
}

// ListAll implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListAll(ctx context.Context) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		ORDER BY year, month, employee_id, day`

	return a.list(ctx, q, query)
}

func (a *attendanceRepository) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]attendance.Record, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var out []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return out, nil
}
