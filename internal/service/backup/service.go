package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/backup"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	snapshot "github.com/khoa-hris/chamcong-backend-go/internal/pkg/backup"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/storage"
)

var namePattern = regexp.MustCompile(`^backup_hospital_[0-9]{8}_[0-9]{6}\.db$`)

type BackupServiceImpl struct {
	employeeRepo    employee.EmployeeRepository
	attendanceRepo  attendance.AttendanceRepository
	requestRepo     correction.RequestRepository
	symbolService   symbol.SymbolService
	settingsService settings.SettingsService
	files           storage.FileStorage
}

func NewBackupService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	requestRepo correction.RequestRepository,
	symbolService symbol.SymbolService,
	settingsService settings.SettingsService,
	files storage.FileStorage,
) backup.Service {
	return &BackupServiceImpl{
		employeeRepo:    employeeRepo,
		attendanceRepo:  attendanceRepo,
		requestRepo:     requestRepo,
		symbolService:   symbolService,
		settingsService: settingsService,
		files:           files,
	}
}

// Create implements backup.Service.
func (s *BackupServiceImpl) Create(ctx context.Context) (backup.CreateBackupResponse, error) {
	snap, err := s.collect(ctx)
	if err != nil {
		return backup.CreateBackupResponse{}, err
	}

	tmpDir, err := os.MkdirTemp("", "chamcong-backup-")
	if err != nil {
		return backup.CreateBackupResponse{}, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	name := fmt.Sprintf("backup_hospital_%s.db", snap.BackupDate.Format("20060102_150405"))
	tmpPath := filepath.Join(tmpDir, name)
	if err := snapshot.WriteSQLite(ctx, tmpPath, snap); err != nil {
		return backup.CreateBackupResponse{}, err
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return backup.CreateBackupResponse{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if _, err := s.files.Upload(ctx, f, name); err != nil {
		return backup.CreateBackupResponse{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	slog.Info("Backup created", "name", name, "employees", len(snap.Employees), "records", len(snap.Records), "requests", len(snap.Requests))

	return backup.CreateBackupResponse{
		Name:       name,
		BackupDate: snap.BackupDate,
		Employees:  len(snap.Employees),
		Records:    len(snap.Records),
		Requests:   len(snap.Requests),
		Symbols:    len(snap.Symbols),
	}, nil
}

// Open implements backup.Service.
func (s *BackupServiceImpl) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !namePattern.MatchString(name) {
		return nil, backup.ErrInvalidName
	}

	rc, err := s.files.Download(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, backup.ErrBackupNotFound
		}
		return nil, err
	}
	return rc, nil
}

func (s *BackupServiceImpl) collect(ctx context.Context) (snapshot.Snapshot, error) {
	employees, err := s.employeeRepo.List(ctx, employee.ListFilter{})
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to list employees: %w", err)
	}
	records, err := s.attendanceRepo.ListAll(ctx)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	requests, err := s.requestRepo.ListAll(ctx)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to list requests: %w", err)
	}
	catalog, err := s.symbolService.Catalog(ctx)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to load symbols: %w", err)
	}
	current, err := s.settingsService.Current(ctx)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to load settings: %w", err)
	}

	return snapshot.Snapshot{
		Employees:  employees,
		Records:    records,
		Requests:   requests,
		Symbols:    catalog,
		Settings:   current,
		BackupDate: s.settingsService.Now().Truncate(time.Second),
	}, nil
}
