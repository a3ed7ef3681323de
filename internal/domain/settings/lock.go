package settings

import "time"

// DayClass is the editability of a single calendar day.
type DayClass string

const (
	DayFuture          DayClass = "FUTURE"
	DayDirectEdit      DayClass = "DIRECT_EDIT"
	DayRequestRequired DayClass = "REQUEST_REQUIRED"
)

// LockBoundary returns the last instant at which (month, year) is still editable:
// 23:59:59 on LockDate of the following month, in loc. Overflowing days roll forward
// the way time.Date normalises them.
func LockBoundary(month, year int, s Settings, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month)+1, s.LockDate, 23, 59, 59, 0, loc)
}

// IsMonthLocked reports whether now is strictly after the lock boundary of (month, year).
func IsMonthLocked(month, year int, s Settings, now time.Time) bool {
	return now.After(LockBoundary(month, year, s, now.Location()))
}

// ClassifyDay compares the calendar date of date against today in now's location.
// It does not consider the month lock.
func ClassifyDay(date time.Time, s Settings, now time.Time) DayClass {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	ny, nm, nd := now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())

	switch {
	case day.After(today):
		return DayFuture
	case day.Before(today):
		return DayRequestRequired
	case now.Hour() >= s.LimitHour:
		return DayRequestRequired
	default:
		return DayDirectEdit
	}
}

// Evaluate applies the lock first and then the day classification.
// A locked month yields ErrLockedPeriod and a future day ErrFuturePeriod.
func Evaluate(date time.Time, s Settings, now time.Time) (DayClass, error) {
	if IsMonthLocked(int(date.Month()), date.Year(), s, now) {
		return "", ErrLockedPeriod
	}
	class := ClassifyDay(date, s, now)
	if class == DayFuture {
		return class, ErrFuturePeriod
	}
	return class, nil
}
