package notification

import "errors"

var (
	ErrDepartmentRequired = errors.New("department is required for the feed")
)
