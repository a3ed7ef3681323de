package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, req employee.ListEmployeeRequest) ([]employee.EmployeeResponse, error) {
	list, err := s.employeeRepo.List(ctx, employee.ListFilter{Department: req.Department})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	filtered := list[:0]
	for _, e := range list {
		if e.Matches(req.Query) {
			filtered = append(filtered, e)
		}
	}
	employee.Sort(filtered, req.Sort)

	resp := make([]employee.EmployeeResponse, len(filtered))
	for i, e := range filtered {
		resp[i] = employee.ToResponse(e)
	}
	return resp, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(*e), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	now := s.now()
	e := &employee.Employee{
		ID:         strings.TrimSpace(req.ID),
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
		Position:   strings.TrimSpace(req.Position),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.employeeRepo.Create(ctx, e); err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", e.ID, "department", e.Department)
	return employee.ToResponse(*e), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := validator.Struct(req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		e.Department = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		e.Position = strings.TrimSpace(*req.Position)
	}
	e.UpdatedAt = s.now()

	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(*e), nil
}

// Delete implements employee.EmployeeService.
// Attendance and requests of the employee are kept, they still count toward past months.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Employee deleted", "employee_id", id)
	return nil
}

// Departments implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Departments(ctx context.Context) (employee.DepartmentListResponse, error) {
	depts, err := s.employeeRepo.ListDepartments(ctx)
	if err != nil {
		return employee.DepartmentListResponse{}, fmt.Errorf("failed to list departments: %w", err)
	}
	if depts == nil {
		depts = []string{}
	}
	return employee.DepartmentListResponse{Departments: depts}, nil
}
