package attendance

import (
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// ============= Request DTOs =============

// SetStatusRequest is a direct edit of one cell. An empty code clears the cell.
type SetStatusRequest struct {
	EmployeeID string `json:"employee_id" validate:"notblank"`
	Date       string `json:"date" validate:"required,isodate"`
	Code       string `json:"code" validate:"max=16"`

	// Scope is the caller's department restriction, empty for unrestricted callers
	Scope string `json:"-"`
}

type BulkMarkRequest struct {
	Department string `json:"department" validate:"notblank"`
	Code       string `json:"code" validate:"max=16"`

	Scope string `json:"-"`
}

type GridRequest struct {
	Department string `validate:"notblank"`
	Month      int    `validate:"gte=1,lte=12"`
	Year       int    `validate:"gte=1"`
	Query      string
	Sort       employee.SortBy

	Scope string
}

type AbsentReportRequest struct {
	Department string `validate:"notblank"`
	// Date defaults to today when empty
	Date string `validate:"omitempty,isodate"`

	Scope string
}

// ============= Response DTOs =============

type RecordResponse struct {
	Key        string    `json:"key"`
	EmployeeID string    `json:"employee_id"`
	Department string    `json:"department"`
	Day        int       `json:"day"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		Key:        r.Key.String(),
		EmployeeID: r.EmployeeID,
		Department: r.Department,
		Day:        r.Day,
		Month:      r.Month,
		Year:       r.Year,
		Status:     r.Status,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Totals are the per-bucket sums of symbol weights over one month.
type Totals struct {
	Salary    decimal.Decimal `json:"salary"`
	Unpaid    decimal.Decimal `json:"unpaid"`
	Insurance decimal.Decimal `json:"insurance"`
	// UnknownCodes lists recorded codes missing from the saved catalog
	UnknownCodes []string `json:"unknown_codes,omitempty"`
}

type TotalsResponse struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Totals
}

type BulkMarkResponse struct {
	Date    string `json:"date"`
	Code    string `json:"code"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}

type GridRow struct {
	Employee employee.EmployeeResponse `json:"employee"`
	// Cells maps day of month to status code
	Cells  map[int]string `json:"cells"`
	Totals Totals         `json:"totals"`
}

type GridResponse struct {
	Department  string    `json:"department"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	DaysInMonth int       `json:"days_in_month"`
	Locked      bool      `json:"locked"`
	Rows        []GridRow `json:"rows"`
	// PendingKeys are cells with a correction request awaiting review
	PendingKeys []string `json:"pending_keys"`
}

type AbsentEntry struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Status     string `json:"status"`
}

type AbsentReportResponse struct {
	Department string        `json:"department"`
	Date       string        `json:"date"`
	Absent     []AbsentEntry `json:"absent"`
}
