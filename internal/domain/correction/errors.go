package correction

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestNotFound is also returned when the request exists but is no longer pending
	ErrRequestNotFound  = errors.New("pending correction request not found")
	ErrDuplicatePending = errors.New("a pending correction request already exists for this day")
	ErrNotApproved      = errors.New("correction request is not approved")
	ErrPartialApproval  = errors.New("request approved but attendance was not updated")
	ErrUnknownApproval  = errors.New("unknown approval mode")
)

// PartialApprovalError reports an approval whose attendance write failed after the
// request was already resolved. The request stays APPROVED and can be re-applied.
type PartialApprovalError struct {
	RequestID string
	Key       string
	Err       error
}

func (e *PartialApprovalError) Error() string {
	return fmt.Sprintf("request %s approved but attendance %s not written: %v", e.RequestID, e.Key, e.Err)
}

func (e *PartialApprovalError) Unwrap() []error {
	return []error{ErrPartialApproval, e.Err}
}
