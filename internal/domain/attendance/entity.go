package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key identifies one attendance cell: one employee on one calendar day.
type Key struct {
	EmployeeID string
	Day        int
	Month      int
	Year       int
}

// NewKey builds the key for an employee on the calendar date of t
func NewKey(employeeID string, t time.Time) Key {
	return Key{
		EmployeeID: employeeID,
		Day:        t.Day(),
		Month:      int(t.Month()),
		Year:       t.Year(),
	}
}

// String renders the storage key "{employeeId}_{day}_{month}_{year}"
func (k Key) String() string {
	return fmt.Sprintf("%s_%d_%d_%d", k.EmployeeID, k.Day, k.Month, k.Year)
}

// Date returns midnight of the keyed day in loc
func (k Key) Date(loc *time.Location) time.Time {
	return time.Date(k.Year, time.Month(k.Month), k.Day, 0, 0, 0, 0, loc)
}

func (k Key) Validate() error {
	if k.EmployeeID == "" || strings.Contains(k.EmployeeID, "_") {
		return fmt.Errorf("%w: employee id %q", ErrInvalidKey, k.EmployeeID)
	}
	if k.Year < 1 || k.Month < 1 || k.Month > 12 {
		return fmt.Errorf("%w: month %d/%d", ErrInvalidKey, k.Month, k.Year)
	}
	if k.Day < 1 || k.Day > DaysInMonth(k.Month, k.Year) {
		return fmt.Errorf("%w: day %d of %d/%d", ErrInvalidKey, k.Day, k.Month, k.Year)
	}
	return nil
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 4 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	nums := make([]int, 3)
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
		}
		nums[i] = n
	}

	k := Key{EmployeeID: parts[0], Day: nums[0], Month: nums[1], Year: nums[2]}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// DaysInMonth returns the real length of the month, leap years included.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Record is the status of one cell. There is at most one record per key and no history.
type Record struct {
	Key
	Department string
	Status     string
	UpdatedAt  time.Time
}
