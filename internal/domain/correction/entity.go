package correction

import (
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsResolved reports whether the status is terminal
func (s Status) IsResolved() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request asks a reviewer to set a past or late attendance cell.
type Request struct {
	ID            string
	EmployeeID    string
	EmployeeName  string
	Department    string
	Day           int
	Month         int
	Year          int
	RequestedCode string
	Reason        string
	Status        Status
	IsRead        bool
	RejectReason  *string
	SubmittedBy   string
	ResolvedBy    *string
	// CreatedAt is refreshed on resolution so resolved requests surface at the top of the feed
	CreatedAt time.Time
	// AppliedAt is set once the approved code has been written to attendance
	AppliedAt *time.Time
}

// Key is the attendance cell the request targets
func (r *Request) Key() attendance.Key {
	return attendance.Key{
		EmployeeID: r.EmployeeID,
		Day:        r.Day,
		Month:      r.Month,
		Year:       r.Year,
	}
}

// NeedsApply is true for approved requests whose attendance write has not landed
func (r *Request) NeedsApply() bool {
	return r.Status == StatusApproved && r.AppliedAt == nil
}

// Resolution is the compare-and-set update applied to a pending request
type Resolution struct {
	Status       Status
	RejectReason *string
	ResolvedBy   string
	At           time.Time
}
