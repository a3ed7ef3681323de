package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/backup"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
)

// CorrectionJobs retries approvals whose attendance write did not land
type CorrectionJobs struct {
	correctionService correction.CorrectionService
	interval          time.Duration
}

func NewCorrectionJobs(correctionService correction.CorrectionService, interval time.Duration) *CorrectionJobs {
	return &CorrectionJobs{
		correctionService: correctionService,
		interval:          interval,
	}
}

func (j *CorrectionJobs) RegisterJobs(scheduler *Scheduler) {
	if j.interval <= 0 {
		return
	}
	scheduler.AddJob("reconcile_approved_requests", j.interval, j.ReconcileApproved)
}

func (j *CorrectionJobs) ReconcileApproved(ctx context.Context) error {
	result, err := j.correctionService.ReconcileApproved(ctx)
	if result != (correction.ReconcileResult{}) {
		slog.Info("Cron: reconciled approved requests",
			"applied", result.Applied, "failed", result.Failed, "superseded", result.Superseded, "locked", result.Locked)
	}
	return err
}

// BackupJobs writes periodic snapshots
type BackupJobs struct {
	backupService backup.Service
	interval      time.Duration
}

func NewBackupJobs(backupService backup.Service, interval time.Duration) *BackupJobs {
	return &BackupJobs{
		backupService: backupService,
		interval:      interval,
	}
}

func (j *BackupJobs) RegisterJobs(scheduler *Scheduler) {
	if j.interval <= 0 {
		return
	}
	scheduler.AddJob("backup_snapshot", j.interval, j.Snapshot)
}

func (j *BackupJobs) Snapshot(ctx context.Context) error {
	_, err := j.backupService.Create(ctx)
	return err
}
