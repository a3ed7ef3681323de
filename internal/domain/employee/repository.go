package employee

import "context"

type ListFilter struct {
	// Department limits results to one department; empty means all
	Department string
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, error)
	ListDepartments(ctx context.Context) ([]string, error)
}
