package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/database"
)

type requestRepository struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) correction.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, employee_id, employee_name, department, day, month, year, requested_code, reason,
	status, is_read, reject_reason, submitted_by, resolved_by, created_at, applied_at`

func scanRequest(row pgx.Row) (correction.Request, error) {
	var r correction.Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName, &r.Department, &r.Day, &r.Month, &r.Year, &r.RequestedCode, &r.Reason,
		&r.Status, &r.IsRead, &r.RejectReason, &r.SubmittedBy, &r.ResolvedBy, &r.CreatedAt, &r.AppliedAt,
	)
	return r, err
}

// Create implements correction.RequestRepository.
func (r *requestRepository) Create(ctx context.Context, req *correction.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO correction_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := q.Exec(ctx, query,
		req.ID, req.EmployeeID, req.EmployeeName, req.Department, req.Day, req.Month, req.Year, req.RequestedCode, req.Reason,
		req.Status, req.IsRead, req.RejectReason, req.SubmittedBy, req.ResolvedBy, req.CreatedAt, req.AppliedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return correction.ErrDuplicatePending
		}
		return fmt.Errorf("failed to create correction request: %w", err)
	}
	return nil
}

// GetByID implements correction.RequestRepository.
func (r *requestRepository) GetByID(ctx context.Context, id string) (*correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanRequest(q.QueryRow(ctx, `SELECT `+requestColumns+` FROM correction_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, correction.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get correction request %s: %w", id, err)
	}
	return &req, nil
}

// List implements correction.RequestRepository.
func (r *requestRepository) List(ctx context.Context, filter correction.ListFilter) ([]correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	statuses := make([]string, len(filter.Statuses))
	for i, st := range filter.Statuses {
		statuses[i] = string(st)
	}

	query := `SELECT ` + requestColumns + `
		FROM correction_requests
		WHERE ($1 = '' OR department = $1)
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		  AND (NOT $3 OR is_read = FALSE)
		  AND (NOT $4 OR applied_at IS NULL)
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{filter.Department, statuses, filter.UnreadOnly, filter.UnappliedOnly}
	if filter.Limit > 0 {
		query += ` LIMIT $5`
		args = append(args, filter.Limit)
	}

	return r.list(ctx, q, query, args...)
}

// ExistsPending implements correction.RequestRepository.
func (r *requestRepository) ExistsPending(ctx context.Context, employeeID string, day, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM correction_requests
			WHERE employee_id = $1 AND day = $2 AND month = $3 AND year = $4 AND status = 'PENDING'
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, day, month, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// Resolve implements correction.RequestRepository.
func (r *requestRepository) Resolve(ctx context.Context, id string, res correction.Resolution) (*correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = $2, reject_reason = $3, resolved_by = $4, is_read = FALSE, created_at = $5
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + requestColumns

	req, err := scanRequest(q.QueryRow(ctx, query, id, res.Status, res.RejectReason, res.ResolvedBy, res.At))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, correction.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to resolve correction request %s: %w", id, err)
	}
	return &req, nil
}

// MarkApplied implements correction.RequestRepository.
func (r *requestRepository) MarkApplied(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE correction_requests SET applied_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark request %s applied: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrRequestNotFound
	}
	return nil
}

// MarkRead implements correction.RequestRepository.
func (r *requestRepository) MarkRead(ctx context.Context, department string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET is_read = TRUE
		WHERE id = ANY($1::text[])
		  AND ($2 = '' OR department = $2)
		  AND status IN ('APPROVED', 'REJECTED')
		  AND is_read = FALSE
	`
	tag, err := q.Exec(ctx, query, ids, department)
	if err != nil {
		return 0, fmt.Errorf("failed to mark requests read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// CountUnread implements correction.RequestRepository.
func (r *requestRepository) CountUnread(ctx context.Context, department string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FROM correction_requests
		WHERE ($1 = '' OR department = $1)
		  AND status IN ('APPROVED', 'REJECTED')
		  AND is_read = FALSE
	`
	var count int
	if err := q.QueryRow(ctx, query, department).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread requests: %w", err)
	}
	return count, nil
}

// ListAll implements correction.RequestRepository.
func (r *requestRepository) ListAll(ctx context.Context) ([]correction.Request, error) {
	q := GetQuerier(ctx, r.db)
	return r.list(ctx, q, `SELECT `+requestColumns+` FROM correction_requests ORDER BY created_at DESC, id DESC`)
}

func (r *requestRepository) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]correction.Request, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query correction requests: %w", err)
	}
	defer rows.Close()

	var out []correction.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction request: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate correction requests: %w", err)
	}
	return out, nil
}
