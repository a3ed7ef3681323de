package memory

import (
	"context"
	"sort"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	defer r.s.lock(ctx)()

	if _, exists := r.s.employees[e.ID]; exists {
		return employee.ErrEmployeeIDExists
	}
	r.s.employees[e.ID] = *e
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	defer r.s.lock(ctx)()

	if _, exists := r.s.employees[e.ID]; !exists {
		return employee.ErrEmployeeNotFound
	}
	r.s.employees[e.ID] = *e
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	if _, exists := r.s.employees[id]; !exists {
		return employee.ErrEmployeeNotFound
	}
	delete(r.s.employees, id)
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	defer r.s.rlock(ctx)()

	e, ok := r.s.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return &e, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	defer r.s.rlock(ctx)()

	var out []employee.Employee
	for _, e := range r.s.employees {
		if filter.Department != "" && e.Department != filter.Department {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *employeeRepository) ListDepartments(ctx context.Context) ([]string, error) {
	defer r.s.rlock(ctx)()

	seen := make(map[string]bool)
	var out []string
	for _, e := range r.s.employees {
		if !seen[e.Department] {
			seen[e.Department] = true
			out = append(out, e.Department)
		}
	}
	sort.Strings(out)
	return out, nil
}
