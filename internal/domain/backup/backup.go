package backup

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrBackupNotFound = errors.New("backup not found")
	ErrInvalidName    = errors.New("invalid backup name")
)

type CreateBackupResponse struct {
	Name       string    `json:"name"`
	BackupDate time.Time `json:"backup_date"`
	Employees  int       `json:"employees"`
	Records    int       `json:"records"`
	Requests   int       `json:"requests"`
	Symbols    int       `json:"symbols"`
}

// Service snapshots the whole attendance book into a downloadable SQLite file
type Service interface {
	Create(ctx context.Context) (CreateBackupResponse, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
