// Command backup writes a SQLite snapshot of the attendance book into BACKUP_DIR.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/app"
	"github.com/khoa-hris/chamcong-backend-go/internal/config"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/logger"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/storage"
	backupService "github.com/khoa-hris/chamcong-backend-go/internal/service/backup"
	settingsService "github.com/khoa-hris/chamcong-backend-go/internal/service/settings"
	symbolService "github.com/khoa-hris/chamcong-backend-go/internal/service/symbol"
)

func main() {
	dir := flag.String("dir", "", "output directory (default BACKUP_DIR)")
	timeout := flag.Duration("timeout", 5*time.Minute, "abort after this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		fmt.Fprintln(os.Stderr, "backup needs DB_DRIVER=postgres, the memory driver has nothing to snapshot")
		os.Exit(1)
	}
	if *dir != "" {
		cfg.Backup.Dir = *dir
	}

	log, logCloser, err := logger.New(logger.Options{
		App:   "chamcong-backup",
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		File:  cfg.App.LogFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	if err := run(cfg, *timeout); err != nil {
		slog.Error("Backup failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	files, err := storage.NewLocalStorage(cfg.Backup.Dir)
	if err != nil {
		return err
	}

	hub := sse.NewHub()
	svc := backupService.NewBackupService(
		store.Employees,
		store.Attendance,
		store.Requests,
		symbolService.NewSymbolService(store.Symbols, hub),
		settingsService.NewSettingsService(store.Settings, hub, settingsService.Config{Location: cfg.Location()}),
		files,
	)

	result, err := svc.Create(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
