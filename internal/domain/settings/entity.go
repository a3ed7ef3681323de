package settings

import (
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

const (
	DefaultLockDate  = 2
	DefaultLimitHour = 10
)

// Settings is the singleton edit-window configuration.
type Settings struct {
	// LockDate is the day of the following month after which a month is frozen
	LockDate int
	// LimitHour is the hour of day after which today's cells need a correction request
	LimitHour int
	UpdatedAt time.Time
}

// Default returns the built-in edit window
func Default() Settings {
	return Settings{
		LockDate:  DefaultLockDate,
		LimitHour: DefaultLimitHour,
	}
}

func (s Settings) Validate() error {
	var errs validator.ValidationErrors
	if s.LockDate < 1 || s.LockDate > 31 {
		errs.Add("lock_date", "must be between 1 and 31")
	}
	if s.LimitHour < 0 || s.LimitHour > 23 {
		errs.Add("limit_hour", "must be between 0 and 23")
	}
	return errs.Err()
}
