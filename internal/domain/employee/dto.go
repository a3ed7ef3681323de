package employee

import (
	"strings"

	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

// ============= Request DTOs =============

type ListEmployeeRequest struct {
	Department string
	Query      string
	Sort       SortBy
}

type CreateEmployeeRequest struct {
	ID         string `json:"id" validate:"notblank,max=50"`
	Name       string `json:"name" validate:"notblank,max=200"`
	Department string `json:"department" validate:"notblank,max=100"`
	Position   string `json:"position" validate:"max=100"`
}

func (r CreateEmployeeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	// The id is a segment of attendance keys
	if strings.Contains(r.ID, "_") {
		return validator.ValidationErrors{{Field: "id", Message: ErrInvalidEmployeeID.Error()}}
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID         string  `json:"-"`
	Name       *string `json:"name" validate:"omitempty,notblank,max=200"`
	Department *string `json:"department" validate:"omitempty,notblank,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
}

// ============= Response DTOs =============

type EmployeeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Department: e.Department,
		Position:   e.Position,
	}
}

type DepartmentListResponse struct {
	Departments []string `json:"departments"`
}
