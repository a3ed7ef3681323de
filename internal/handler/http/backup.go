package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/backup"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/response"
)

type BackupHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
}

type backupHandlerImpl struct {
	backupService backup.Service
}

func NewBackupHandler(backupService backup.Service) BackupHandler {
	return &backupHandlerImpl{backupService: backupService}
}

func (h *backupHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	result, err := h.backupService.Create(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Backup created", result)
}

func (h *backupHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := h.backupService.Open(r.Context(), name)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/vnd.sqlite3")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Backup download interrupted", "name", name, "error", err)
	}
}
