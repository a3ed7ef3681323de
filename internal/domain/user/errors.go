package user

import "errors"

var (
	ErrInvalidRole              = errors.New("invalid role")
	ErrDepartmentRequired       = errors.New("department is required for department role")
	ErrDepartmentScopeViolation = errors.New("department outside caller scope")
)
