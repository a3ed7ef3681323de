package attendance

import "errors"

var (
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrInvalidKey      = errors.New("invalid attendance key")
	ErrRequestRequired = errors.New("day is outside the direct edit window, submit a correction request")
)
