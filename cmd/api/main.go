package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/app"
	"github.com/khoa-hris/chamcong-backend-go/internal/config"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	appHTTP "github.com/khoa-hris/chamcong-backend-go/internal/handler/http"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/cron"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/jwt"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/logger"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/storage"
	attendanceService "github.com/khoa-hris/chamcong-backend-go/internal/service/attendance"
	backupService "github.com/khoa-hris/chamcong-backend-go/internal/service/backup"
	correctionService "github.com/khoa-hris/chamcong-backend-go/internal/service/correction"
	employeeService "github.com/khoa-hris/chamcong-backend-go/internal/service/employee"
	notificationService "github.com/khoa-hris/chamcong-backend-go/internal/service/notification"
	settingsService "github.com/khoa-hris/chamcong-backend-go/internal/service/settings"
	symbolService "github.com/khoa-hris/chamcong-backend-go/internal/service/symbol"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log, logCloser, err := logger.New(logger.Options{
		App:     "chamcong",
		Version: version,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		File:    cfg.App.LogFile,
	})
	if err != nil {
		fmt.Println("Error creating logger:", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	fileStorage, err := storage.NewLocalStorage(cfg.Backup.Dir)
	if err != nil {
		slog.Error("Failed to initialize backup storage", "error", err)
		os.Exit(1)
	}

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SSEExpiration)

	settingsSvc := settingsService.NewSettingsService(store.Settings, hub, settingsService.Config{
		Defaults: settings.Settings{
			LockDate:  cfg.Policy.LockDate,
			LimitHour: cfg.Policy.LimitHour,
		},
		Location: cfg.Location(),
	})
	symbolSvc := symbolService.NewSymbolService(store.Symbols, hub)
	employeeSvc := employeeService.NewEmployeeService(store.Employees)
	attendanceSvc := attendanceService.NewAttendanceService(
		store.Tx,
		store.Attendance,
		store.Employees,
		store.Requests,
		symbolSvc,
		settingsSvc,
		hub,
	)
	correctionSvc := correctionService.NewCorrectionService(
		store.Tx,
		store.Requests,
		store.Employees,
		store.Attendance,
		attendanceSvc,
		symbolSvc,
		settingsSvc,
		hub,
		correctionService.Config{ApprovalMode: cfg.Policy.ApprovalMode},
	)
	notificationSvc := notificationService.NewNotificationService(store.Requests, hub)
	backupSvc := backupService.NewBackupService(
		store.Employees,
		store.Attendance,
		store.Requests,
		symbolSvc,
		settingsSvc,
		fileStorage,
	)

	router := appHTTP.NewRouter(log, cfg.App.CORSOrigins, JWTService, appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, employeeSvc),
		Correction:   appHTTP.NewCorrectionHandler(correctionSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc, JWTService),
		Symbol:       appHTTP.NewSymbolHandler(symbolSvc),
		Settings:     appHTTP.NewSettingsHandler(settingsSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Backup:       appHTTP.NewBackupHandler(backupSvc),
	})

	scheduler := cron.NewScheduler(ctx)
	cron.NewCorrectionJobs(correctionSvc, cfg.Policy.ReconcileInterval).RegisterJobs(scheduler)
	cron.NewBackupJobs(backupSvc, cfg.Backup.Interval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	// open event streams never go idle, so shutdown cancels their base context
	streamCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}
	server.RegisterOnShutdown(cancelStreams)

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver, "approval_mode", cfg.Policy.ApprovalMode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down", "subscribers", hub.TotalSubscribers())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
