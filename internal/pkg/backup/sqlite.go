// Package backup writes full data snapshots to standalone SQLite files.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
)

// Snapshot is everything needed to rebuild the attendance book
type Snapshot struct {
	Employees  []employee.Employee
	Records    []attendance.Record
	Requests   []correction.Request
	Symbols    symbol.Catalog
	Settings   settings.Settings
	BackupDate time.Time
}

const schema = `
CREATE TABLE employees (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	department TEXT NOT NULL,
	position TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE attendance_records (
	employee_id TEXT NOT NULL,
	day INTEGER NOT NULL,
	month INTEGER NOT NULL,
	year INTEGER NOT NULL,
	department TEXT NOT NULL,
	status TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (employee_id, year, month, day)
);

CREATE TABLE correction_requests (
	id TEXT PRIMARY KEY,
	employee_id TEXT NOT NULL,
	employee_name TEXT NOT NULL,
	department TEXT NOT NULL,
	day INTEGER NOT NULL,
	month INTEGER NOT NULL,
	year INTEGER NOT NULL,
	requested_code TEXT NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL,
	is_read INTEGER NOT NULL,
	reject_reason TEXT,
	submitted_by TEXT NOT NULL,
	resolved_by TEXT,
	created_at TEXT NOT NULL,
	applied_at TEXT
);

CREATE TABLE symbols (
	code TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	val TEXT NOT NULL,
	type TEXT NOT NULL,
	sort_order INTEGER NOT NULL
);

CREATE TABLE settings (
	lock_date INTEGER NOT NULL,
	limit_hour INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE backup_meta (
	backup_date TEXT NOT NULL
);
`

// WriteSQLite creates a new SQLite database at path holding snap.
// The file must not exist yet.
func WriteSQLite(ctx context.Context, path string, snap Snapshot) (err error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=DELETE")
	if err != nil {
		return fmt.Errorf("failed to open backup database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create backup schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin backup transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, e := range snap.Employees {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO employees (id, name, department, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, e.Department, e.Position, formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
		); err != nil {
			return fmt.Errorf("failed to write employee %s: %w", e.ID, err)
		}
	}

	for _, r := range snap.Records {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO attendance_records (employee_id, day, month, year, department, status, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.EmployeeID, r.Day, r.Month, r.Year, r.Department, r.Status, formatTime(r.UpdatedAt),
		); err != nil {
			return fmt.Errorf("failed to write attendance %s: %w", r.Key, err)
		}
	}

	for _, r := range snap.Requests {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO correction_requests (id, employee_id, employee_name, department, day, month, year,
				requested_code, reason, status, is_read, reject_reason, submitted_by, resolved_by, created_at, applied_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.EmployeeID, r.EmployeeName, r.Department, r.Day, r.Month, r.Year,
			r.RequestedCode, r.Reason, string(r.Status), r.IsRead, r.RejectReason, r.SubmittedBy, r.ResolvedBy,
			formatTime(r.CreatedAt), formatTimePtr(r.AppliedAt),
		); err != nil {
			return fmt.Errorf("failed to write request %s: %w", r.ID, err)
		}
	}

	for i, s := range snap.Symbols {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO symbols (code, label, val, type, sort_order) VALUES (?, ?, ?, ?, ?)`,
			s.Code, s.Label, s.Val.String(), string(s.Type), i,
		); err != nil {
			return fmt.Errorf("failed to write symbol %s: %w", s.Code, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO settings (lock_date, limit_hour, updated_at) VALUES (?, ?, ?)`,
		snap.Settings.LockDate, snap.Settings.LimitHour, formatTime(snap.Settings.UpdatedAt),
	); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO backup_meta (backup_date) VALUES (?)`, formatTime(snap.BackupDate)); err != nil {
		return fmt.Errorf("failed to write backup date: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit backup: %w", err)
	}
	return nil
}

// ReadSQLite loads a snapshot written by WriteSQLite
func ReadSQLite(ctx context.Context, path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open backup database: %w", err)
	}
	defer db.Close()

	snap := &Snapshot{}

	if err := queryRows(ctx, db, `SELECT id, name, department, position, created_at, updated_at FROM employees ORDER BY id`,
		func(rows *sql.Rows) error {
			var e employee.Employee
			var createdAt, updatedAt string
			if err := rows.Scan(&e.ID, &e.Name, &e.Department, &e.Position, &createdAt, &updatedAt); err != nil {
				return err
			}
			e.CreatedAt, e.UpdatedAt = parseTime(createdAt), parseTime(updatedAt)
			snap.Employees = append(snap.Employees, e)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	if err := queryRows(ctx, db, `SELECT employee_id, day, month, year, department, status, updated_at
		FROM attendance_records ORDER BY employee_id, year, month, day`,
		func(rows *sql.Rows) error {
			var r attendance.Record
			var updatedAt string
			if err := rows.Scan(&r.EmployeeID, &r.Day, &r.Month, &r.Year, &r.Department, &r.Status, &updatedAt); err != nil {
				return err
			}
			r.UpdatedAt = parseTime(updatedAt)
			snap.Records = append(snap.Records, r)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to read attendance: %w", err)
	}

	if err := queryRows(ctx, db, `SELECT id, employee_id, employee_name, department, day, month, year,
		requested_code, reason, status, is_read, reject_reason, submitted_by, resolved_by, created_at, applied_at
		FROM correction_requests ORDER BY created_at, id`,
		func(rows *sql.Rows) error {
			var r correction.Request
			var status, createdAt string
			var appliedAt sql.NullString
			if err := rows.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.Department, &r.Day, &r.Month, &r.Year,
				&r.RequestedCode, &r.Reason, &status, &r.IsRead, &r.RejectReason, &r.SubmittedBy, &r.ResolvedBy,
				&createdAt, &appliedAt); err != nil {
				return err
			}
			r.Status = correction.Status(status)
			r.CreatedAt = parseTime(createdAt)
			if appliedAt.Valid {
				t := parseTime(appliedAt.String)
				r.AppliedAt = &t
			}
			snap.Requests = append(snap.Requests, r)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to read requests: %w", err)
	}

	if err := queryRows(ctx, db, `SELECT code, label, val, type, sort_order FROM symbols ORDER BY sort_order`,
		func(rows *sql.Rows) error {
			var s symbol.Symbol
			var val, typ string
			if err := rows.Scan(&s.Code, &s.Label, &val, &typ, &s.Order); err != nil {
				return err
			}
			d, err := decimal.NewFromString(val)
			if err != nil {
				return fmt.Errorf("symbol %s: %w", s.Code, err)
			}
			s.Val, s.Type = d, symbol.Category(typ)
			snap.Symbols = append(snap.Symbols, s)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to read symbols: %w", err)
	}

	var updatedAt, backupDate string
	if err := db.QueryRowContext(ctx, `SELECT lock_date, limit_hour, updated_at FROM settings`).
		Scan(&snap.Settings.LockDate, &snap.Settings.LimitHour, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	snap.Settings.UpdatedAt = parseTime(updatedAt)

	if err := db.QueryRowContext(ctx, `SELECT backup_date FROM backup_meta`).Scan(&backupDate); err != nil {
		return nil, fmt.Errorf("failed to read backup date: %w", err)
	}
	snap.BackupDate = parseTime(backupDate)

	return snap, nil
}

func queryRows(ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
