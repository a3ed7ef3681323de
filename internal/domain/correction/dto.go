package correction

import (
	"time"
)

// ============= Request DTOs =============

type SubmitRequest struct {
	EmployeeID string `json:"employee_id" validate:"notblank"`
	Date       string `json:"date" validate:"required,isodate"`
	Code       string `json:"code" validate:"notblank,max=16"`
	Reason     string `json:"reason" validate:"notblank,max=1000"`

	SubmittedBy string `json:"-"`
	Scope       string `json:"-"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"notblank,max=1000"`
}

type ListPendingRequest struct {
	Department string
	Limit      int
}

// ============= Response DTOs =============

type RequestResponse struct {
	ID            string     `json:"id"`
	Key           string     `json:"key"`
	EmployeeID    string     `json:"employee_id"`
	EmployeeName  string     `json:"employee_name"`
	Department    string     `json:"department"`
	Day           int        `json:"day"`
	Month         int        `json:"month"`
	Year          int        `json:"year"`
	RequestedCode string     `json:"requested_code"`
	Reason        string     `json:"reason"`
	Status        Status     `json:"status"`
	IsRead        bool       `json:"is_read"`
	RejectReason  *string    `json:"reject_reason,omitempty"`
	SubmittedBy   string     `json:"submitted_by,omitempty"`
	ResolvedBy    *string    `json:"resolved_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	AppliedAt     *time.Time `json:"applied_at,omitempty"`
}

func ToResponse(r Request) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		Key:           r.Key().String(),
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		Department:    r.Department,
		Day:           r.Day,
		Month:         r.Month,
		Year:          r.Year,
		RequestedCode: r.RequestedCode,
		Reason:        r.Reason,
		Status:        r.Status,
		IsRead:        r.IsRead,
		RejectReason:  r.RejectReason,
		SubmittedBy:   r.SubmittedBy,
		ResolvedBy:    r.ResolvedBy,
		CreatedAt:     r.CreatedAt,
		AppliedAt:     r.AppliedAt,
	}
}

type PendingKeysResponse struct {
	Keys []string `json:"keys"`
}

type ReconcileResult struct {
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
	// Superseded counts approvals overtaken by a later write to the same key
	Superseded int `json:"superseded"`
	// Locked counts approvals left unapplied because their month is closed
	Locked int `json:"locked"`
}
