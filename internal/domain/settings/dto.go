package settings

import "time"

// ============= Request DTOs =============

type UpdateSettingsRequest struct {
	LockDate  *int `json:"lock_date"`
	LimitHour *int `json:"limit_hour"`
}

// ============= Response DTOs =============

type SettingsResponse struct {
	LockDate  int        `json:"lock_date"`
	LimitHour int        `json:"limit_hour"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ClassifyResponse struct {
	Date   string   `json:"date"`
	Class  DayClass `json:"class"`
	Locked bool     `json:"locked"`
	Now    string   `json:"now"`
}

type LockStatusResponse struct {
	Month    int       `json:"month"`
	Year     int       `json:"year"`
	Locked   bool      `json:"locked"`
	Boundary time.Time `json:"boundary"`
}
