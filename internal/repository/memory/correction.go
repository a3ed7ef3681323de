package memory

import (
	"context"
	"sort"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

type requestRepository struct {
	s *Store
}

func NewRequestRepository(s *Store) correction.RequestRepository {
	return &requestRepository{s: s}
}

func (r *requestRepository) Create(ctx context.Context, req *correction.Request) error {
	defer r.s.lock(ctx)()

	if req.Status == correction.StatusPending && r.pendingExists(req.EmployeeID, req.Day, req.Month, req.Year) {
		return correction.ErrDuplicatePending
	}
	r.s.requests[req.ID] = *req
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*correction.Request, error) {
	defer r.s.rlock(ctx)()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, correction.ErrRequestNotFound
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, filter correction.ListFilter) ([]correction.Request, error) {
	defer r.s.rlock(ctx)()

	statuses := make([]string, len(filter.Statuses))
	for i, st := range filter.Statuses {
		statuses[i] = string(st)
	}

	var out []correction.Request
	for _, req := range r.s.requests {
		if filter.Department != "" && req.Department != filter.Department {
			continue
		}
		if len(statuses) > 0 && !validator.IsInSlice(string(req.Status), statuses) {
			continue
		}
		if filter.UnreadOnly && req.IsRead {
			continue
		}
		if filter.UnappliedOnly && req.AppliedAt != nil {
			continue
		}
		out = append(out, req)
	}
	sortNewestFirst(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *requestRepository) ExistsPending(ctx context.Context, employeeID string, day, month, year int) (bool, error) {
	defer r.s.rlock(ctx)()

	return r.pendingExists(employeeID, day, month, year), nil
}

// pendingExists expects the store lock to be held
func (r *requestRepository) pendingExists(employeeID string, day, month, year int) bool {
	for _, req := range r.s.requests {
		if req.Status == correction.StatusPending && req.EmployeeID == employeeID &&
			req.Day == day && req.Month == month && req.Year == year {
			return true
		}
	}
	return false
}

func (r *requestRepository) Resolve(ctx context.Context, id string, res correction.Resolution) (*correction.Request, error) {
	defer r.s.lock(ctx)()

	req, ok := r.s.requests[id]
	if !ok || req.Status != correction.StatusPending {
		return nil, correction.ErrRequestNotFound
	}

	resolvedBy := res.ResolvedBy
	req.Status = res.Status
	req.RejectReason = res.RejectReason
	req.ResolvedBy = &resolvedBy
	req.IsRead = false
	req.CreatedAt = res.At
	r.s.requests[id] = req
	return &req, nil
}

func (r *requestRepository) MarkApplied(ctx context.Context, id string, at time.Time) error {
	defer r.s.lock(ctx)()

	req, ok := r.s.requests[id]
	if !ok {
		return correction.ErrRequestNotFound
	}
	req.AppliedAt = &at
	r.s.requests[id] = req
	return nil
}

func (r *requestRepository) MarkRead(ctx context.Context, department string, ids []string) (int, error) {
	defer r.s.lock(ctx)()

	marked := 0
	for _, id := range ids {
		req, ok := r.s.requests[id]
		if !ok || req.IsRead || !req.Status.IsResolved() {
			continue
		}
		if department != "" && req.Department != department {
			continue
		}
		req.IsRead = true
		r.s.requests[id] = req
		marked++
	}
	return marked, nil
}

func (r *requestRepository) CountUnread(ctx context.Context, department string) (int, error) {
	defer r.s.rlock(ctx)()

	count := 0
	for _, req := range r.s.requests {
		if department != "" && req.Department != department {
			continue
		}
		if req.Status.IsResolved() && !req.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *requestRepository) ListAll(ctx context.Context) ([]correction.Request, error) {
	defer r.s.rlock(ctx)()

	out := make([]correction.Request, 0, len(r.s.requests))
	for _, req := range r.s.requests {
		out = append(out, req)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(reqs []correction.Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].CreatedAt.Equal(reqs[j].CreatedAt) {
			return reqs[i].ID > reqs[j].ID
		}
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}
