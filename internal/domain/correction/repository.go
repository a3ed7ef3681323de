package correction

import (
	"context"
	"time"
)

type ListFilter struct {
	// Department limits results to one department; empty means all
	Department string
	Statuses   []Status
	// UnreadOnly keeps requests with IsRead=false
	UnreadOnly bool
	// UnappliedOnly keeps requests whose AppliedAt is unset
	UnappliedOnly bool
	Limit         int
}

type RequestRepository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	// List orders by CreatedAt descending
	List(ctx context.Context, filter ListFilter) ([]Request, error)
	ExistsPending(ctx context.Context, employeeID string, day, month, year int) (bool, error)

	// Resolve updates the request only while it is still PENDING, otherwise ErrRequestNotFound.
	Resolve(ctx context.Context, id string, res Resolution) (*Request, error)
	MarkApplied(ctx context.Context, id string, at time.Time) error

	// MarkRead flags the given ids as read when they are resolved, unread and inside department.
	// It returns the number of requests changed.
	MarkRead(ctx context.Context, department string, ids []string) (int, error)
	CountUnread(ctx context.Context, department string) (int, error)

	ListAll(ctx context.Context) ([]Request, error)
}
