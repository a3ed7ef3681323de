package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeIDExists    = errors.New("employee ID already exists")
	ErrInvalidEmployeeID   = errors.New("employee ID must not contain '_'")
	ErrDepartmentForbidden = errors.New("employee belongs to another department")
)
