package employee

import "time"

// Employee belongs to exactly one department. Position is informational and only drives sorting.
type Employee struct {
	ID         string
	Name       string
	Department string
	Position   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
