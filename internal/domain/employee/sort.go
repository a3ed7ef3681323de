package employee

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortBy string

const (
	SortByName     SortBy = "name"
	SortByPosition SortBy = "position"
)

// positionPriority ranks department positions; unknown positions sort last.
var positionPriority = map[string]int{
	"Trưởng Khoa": 1,
	"Phó Khoa":    2,
	"Bác sĩ":      3,
	"Điều dưỡng":  4,
	"Y tá":        5,
}

const unknownPositionPriority = 99

// PositionPriority returns the rank of a position
func PositionPriority(position string) int {
	if p, ok := positionPriority[strings.TrimSpace(position)]; ok {
		return p
	}
	return unknownPositionPriority
}

// GivenName is the last word of a Vietnamese full name, which is what people are sorted by.
func GivenName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Vietnamese)
)

func compareNames(a, b string) int {
	// collate.Collator is not safe for concurrent use
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// Sort orders employees in place. Ties keep their previous order.
func Sort(list []Employee, by SortBy) {
	switch by {
	case SortByPosition:
		sort.SliceStable(list, func(i, j int) bool {
			return PositionPriority(list[i].Position) < PositionPriority(list[j].Position)
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return compareNames(GivenName(list[i].Name), GivenName(list[j].Name)) < 0
		})
	}
}

// Matches reports whether the employee id or name contains q, case-insensitively.
func (e Employee) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.ID), q)
}
