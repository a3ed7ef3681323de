// Package app opens the configured storage backend for the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/khoa-hris/chamcong-backend-go/internal/config"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/khoa-hris/chamcong-backend-go/internal/fixtures"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/database"
	"github.com/khoa-hris/chamcong-backend-go/internal/repository/memory"
	"github.com/khoa-hris/chamcong-backend-go/internal/repository/postgresql"
)

// Storage is one storage backend: a transaction manager plus its repositories
type Storage struct {
	Tx         database.TxManager
	Employees  employee.EmployeeRepository
	Attendance attendance.AttendanceRepository
	Requests   correction.RequestRepository
	Symbols    symbol.SymbolRepository
	Settings   settings.SettingsRepository

	close func()
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects to the configured driver. PostgreSQL is migrated on open;
// the memory driver starts with the demo roster.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Storage{
			Tx:         postgresql.NewTxManager(db),
			Employees:  postgresql.NewEmployeeRepository(db),
			Attendance: postgresql.NewAttendanceRepository(db),
			Requests:   postgresql.NewRequestRepository(db),
			Symbols:    postgresql.NewSymbolRepository(db),
			Settings:   postgresql.NewSettingsRepository(db),
			close:      db.Close,
		}, nil

	case config.DriverMemory:
		store := memory.NewStore()
		employees := memory.NewEmployeeRepository(store)
		for _, e := range fixtures.DemoEmployees() {
			e := e
			if err := employees.Create(ctx, &e); err != nil {
				return nil, fmt.Errorf("failed to seed employee %s: %w", e.ID, err)
			}
		}
		slog.Warn("Using in-memory storage, data is lost on restart")
		return &Storage{
			Tx:         store,
			Employees:  employees,
			Attendance: memory.NewAttendanceRepository(store),
			Requests:   memory.NewRequestRepository(store),
			Symbols:    memory.NewSymbolRepository(store),
			Settings:   memory.NewSettingsRepository(store),
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}
