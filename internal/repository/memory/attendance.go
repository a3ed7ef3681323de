package memory

import (
	"context"
	"sort"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Get(ctx context.Context, key attendance.Key) (*attendance.Record, error) {
	defer r.s.rlock(ctx)()

	rec, ok := r.s.attendance[key.String()]
	if !ok {
		return nil, attendance.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *attendanceRepository) Set(ctx context.Context, record *attendance.Record) error {
	if err := record.Key.Validate(); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	r.s.attendance[record.Key.String()] = *record
	return nil
}

func (r *attendanceRepository) Delete(ctx context.Context, key attendance.Key) error {
	defer r.s.lock(ctx)()

	delete(r.s.attendance, key.String())
	return nil
}

func (r *attendanceRepository) ListByMonth(ctx context.Context, filter attendance.MonthFilter) ([]attendance.Record, error) {
	defer r.s.rlock(ctx)()

	var ids map[string]bool
	if len(filter.EmployeeIDs) > 0 {
		ids = make(map[string]bool, len(filter.EmployeeIDs))
		for _, id := range filter.EmployeeIDs {
			ids[id] = true
		}
	}

	var out []attendance.Record
	for _, rec := range r.s.attendance {
		if rec.Month != filter.Month || rec.Year != filter.Year {
			continue
		}
		if ids != nil && !ids[rec.EmployeeID] {
			continue
		}
		if filter.Department != "" && rec.Department != filter.Department {
			continue
		}
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

func (r *attendanceRepository) ListAll(ctx context.Context) ([]attendance.Record, error) {
	defer r.s.rlock(ctx)()

	out := make([]attendance.Record, 0, len(r.s.attendance))
	for _, rec := range r.s.attendance {
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(recs []attendance.Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
}
