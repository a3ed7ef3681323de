package settings

import "errors"

var (
	ErrSettingsNotFound = errors.New("settings not found")
	ErrLockedPeriod     = errors.New("attendance period is locked")
	ErrFuturePeriod     = errors.New("cannot record attendance for a future day")
)
