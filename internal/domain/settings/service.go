package settings

import (
	"context"
	"time"
)

type SettingsService interface {
	Get(ctx context.Context) (SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	// Current returns the stored settings, seeding defaults on first read.
	Current(ctx context.Context) (Settings, error)
	// Now is the service clock in the configured timezone
	Now() time.Time

	Classify(ctx context.Context, date string) (ClassifyResponse, error)
	LockStatus(ctx context.Context, month, year int) (LockStatusResponse, error)
	// Check evaluates lock and day class for a date against the current settings.
	Check(ctx context.Context, date time.Time) (DayClass, error)
	IsLocked(ctx context.Context, month, year int) (bool, error)
}
