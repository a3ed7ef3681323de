package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/notification"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

// Config holds settings service configuration
type Config struct {
	// Defaults seed the stored settings on first read
	Defaults settings.Settings
	// Location is the timezone the edit window is evaluated in. Default: time.Local
	Location *time.Location
	// Clock overrides time.Now, for tests
	Clock func() time.Time
}

type settingsServiceImpl struct {
	repo   settings.SettingsRepository
	hub    *sse.Hub
	config Config
}

func NewSettingsService(repo settings.SettingsRepository, hub *sse.Hub, cfg Config) settings.SettingsService {
	if cfg.Defaults == (settings.Settings{}) {
		cfg.Defaults = settings.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &settingsServiceImpl{
		repo:   repo,
		hub:    hub,
		config: cfg,
	}
}

func (s *settingsServiceImpl) Now() time.Time {
	return s.config.Clock().In(s.config.Location)
}

// Current implements settings.SettingsService.
func (s *settingsServiceImpl) Current(ctx context.Context) (settings.Settings, error) {
	cfg, err := s.repo.Get(ctx)
	if err == nil {
		return *cfg, nil
	}
	if !errors.Is(err, settings.ErrSettingsNotFound) {
		return settings.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	seed := s.config.Defaults
	seed.UpdatedAt = s.Now()
	if err := s.repo.Save(ctx, &seed); err != nil {
		return settings.Settings{}, fmt.Errorf("failed to seed settings: %w", err)
	}
	slog.Info("Seeded default settings", "lock_date", seed.LockDate, "limit_hour", seed.LimitHour)
	return seed, nil
}

// Get implements settings.SettingsService.
func (s *settingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	cfg, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return toResponse(cfg), nil
}

// Update implements settings.SettingsService.
func (s *settingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	cfg, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	if req.LockDate != nil {
		cfg.LockDate = *req.LockDate
	}
	if req.LimitHour != nil {
		cfg.LimitHour = *req.LimitHour
	}
	if err := cfg.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	cfg.UpdatedAt = s.Now()
	if err := s.repo.Save(ctx, &cfg); err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to save settings: %w", err)
	}

	resp := toResponse(cfg)
	s.hub.Publish(sse.TopicSystem, sse.Event{Event: notification.EventSettingsSaved, Data: resp})
	slog.Info("Settings updated", "lock_date", cfg.LockDate, "limit_hour", cfg.LimitHour)
	return resp, nil
}

// Check implements settings.SettingsService.
func (s *settingsServiceImpl) Check(ctx context.Context, date time.Time) (settings.DayClass, error) {
	cfg, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return settings.Evaluate(date, cfg, s.Now())
}

// IsLocked implements settings.SettingsService.
func (s *settingsServiceImpl) IsLocked(ctx context.Context, month, year int) (bool, error) {
	cfg, err := s.Current(ctx)
	if err != nil {
		return false, err
	}
	return settings.IsMonthLocked(month, year, cfg, s.Now()), nil
}

// Classify implements settings.SettingsService.
func (s *settingsServiceImpl) Classify(ctx context.Context, date string) (settings.ClassifyResponse, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return settings.ClassifyResponse{}, validator.ValidationErrors{{Field: "date", Message: "must be a date in YYYY-MM-DD format"}}
	}

	cfg, err := s.Current(ctx)
	if err != nil {
		return settings.ClassifyResponse{}, err
	}

	now := s.Now()
	return settings.ClassifyResponse{
		Date:   date,
		Class:  settings.ClassifyDay(day, cfg, now),
		Locked: settings.IsMonthLocked(int(day.Month()), day.Year(), cfg, now),
		Now:    now.Format(time.RFC3339),
	}, nil
}

// LockStatus implements settings.SettingsService.
func (s *settingsServiceImpl) LockStatus(ctx context.Context, month, year int) (settings.LockStatusResponse, error) {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs.Add("month", "must be between 1 and 12")
	}
	if year < 1 {
		errs.Add("year", "must be positive")
	}
	if err := errs.Err(); err != nil {
		return settings.LockStatusResponse{}, err
	}

	cfg, err := s.Current(ctx)
	if err != nil {
		return settings.LockStatusResponse{}, err
	}

	now := s.Now()
	return settings.LockStatusResponse{
		Month:    month,
		Year:     year,
		Locked:   settings.IsMonthLocked(month, year, cfg, now),
		Boundary: settings.LockBoundary(month, year, cfg, now.Location()),
	}, nil
}

func toResponse(cfg settings.Settings) settings.SettingsResponse {
	resp := settings.SettingsResponse{
		LockDate:  cfg.LockDate,
		LimitHour: cfg.LimitHour,
	}
	if !cfg.UpdatedAt.IsZero() {
		updated := cfg.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
