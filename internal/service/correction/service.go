package correction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/notification"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/database"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

const (
	// ApprovalTransactional resolves the request and writes attendance in one store transaction
	ApprovalTransactional = "transactional"
	// ApprovalSequential resolves first and writes attendance afterwards
	ApprovalSequential = "sequential"

	defaultPendingLimit = 200
)

type Config struct {
	ApprovalMode string
}

type CorrectionServiceImpl struct {
	tx                database.TxManager
	requestRepo       correction.RequestRepository
	employeeRepo      employee.EmployeeRepository
	attendanceRepo    attendance.AttendanceRepository
	attendanceService attendance.AttendanceService
	symbolService     symbol.SymbolService
	settingsService   settings.SettingsService
	hub               *sse.Hub
	config            Config
}

func NewCorrectionService(
	tx database.TxManager,
	requestRepo correction.RequestRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	attendanceService attendance.AttendanceService,
	symbolService symbol.SymbolService,
	settingsService settings.SettingsService,
	hub *sse.Hub,
	cfg Config,
) correction.CorrectionService {
	if cfg.ApprovalMode == "" {
		cfg.ApprovalMode = ApprovalTransactional
	}
	return &CorrectionServiceImpl{
		tx:                tx,
		requestRepo:       requestRepo,
		employeeRepo:      employeeRepo,
		attendanceRepo:    attendanceRepo,
		attendanceService: attendanceService,
		symbolService:     symbolService,
		settingsService:   settingsService,
		hub:               hub,
		config:            cfg,
	}
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, req correction.SubmitRequest) (correction.RequestResponse, error) {
	if err := validator.Struct(req); err != nil {
		return correction.RequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return correction.RequestResponse{}, err
	}
	if req.Scope != "" && emp.Department != req.Scope {
		return correction.RequestResponse{}, employee.ErrDepartmentForbidden
	}

	code := strings.TrimSpace(req.Code)
	catalog, err := s.symbolService.Catalog(ctx)
	if err != nil {
		return correction.RequestResponse{}, err
	}
	if !catalog.Has(code) {
		return correction.RequestResponse{}, validator.ValidationErrors{{Field: "code", Message: fmt.Sprintf("%s: %s", symbol.ErrUnknownCode, code)}}
	}

	date, _ := validator.IsValidDate(req.Date)
	if _, err := s.settingsService.Check(ctx, date); err != nil {
		return correction.RequestResponse{}, err
	}

	key := attendance.NewKey(emp.ID, date)
	exists, err := s.requestRepo.ExistsPending(ctx, key.EmployeeID, key.Day, key.Month, key.Year)
	if err != nil {
		return correction.RequestResponse{}, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if exists {
		return correction.RequestResponse{}, correction.ErrDuplicatePending
	}

	id, err := uuid.NewV7()
	if err != nil {
		return correction.RequestResponse{}, fmt.Errorf("failed to generate request id: %w", err)
	}

	request := &correction.Request{
		ID:            id.String(),
		EmployeeID:    emp.ID,
		EmployeeName:  emp.Name,
		Department:    emp.Department,
		Day:           key.Day,
		Month:         key.Month,
		Year:          key.Year,
		RequestedCode: code,
		Reason:        strings.TrimSpace(req.Reason),
		Status:        correction.StatusPending,
		IsRead:        false,
		SubmittedBy:   req.SubmittedBy,
		CreatedAt:     s.settingsService.Now(),
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return correction.RequestResponse{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	resp := correction.ToResponse(*request)
	s.hub.Broadcast(request.Department, sse.Event{Event: notification.EventRequestCreated, Data: resp})
	slog.Info("Correction request submitted", "request_id", request.ID, "key", key.String(), "code", code)
	return resp, nil
}

// Approve implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, id string, reviewer string) (correction.RequestResponse, error) {
	resolution := correction.Resolution{
		Status:     correction.StatusApproved,
		ResolvedBy: reviewer,
		At:         s.settingsService.Now(),
	}

	switch s.config.ApprovalMode {
	case ApprovalTransactional:
		var approved *correction.Request
		err := s.tx.WithTx(ctx, func(ctx context.Context) error {
			if err := s.ensureApprovable(ctx, id); err != nil {
				return err
			}
			req, err := s.requestRepo.Resolve(ctx, id, resolution)
			if err != nil {
				return err
			}
			if err := s.apply(ctx, req); err != nil {
				return err
			}
			approved = req
			return nil
		})
		if err != nil {
			return correction.RequestResponse{}, err
		}
		return s.resolved(approved), nil

	case ApprovalSequential:
		if err := s.ensureApprovable(ctx, id); err != nil {
			return correction.RequestResponse{}, err
		}
		req, err := s.requestRepo.Resolve(ctx, id, resolution)
		if err != nil {
			return correction.RequestResponse{}, err
		}
		if err := s.apply(ctx, req); err != nil {
			slog.Error("Approved request could not be applied", "request_id", req.ID, "key", req.Key().String(), "error", err)
			return s.resolved(req), &correction.PartialApprovalError{RequestID: req.ID, Key: req.Key().String(), Err: err}
		}
		return s.resolved(req), nil

	default:
		return correction.RequestResponse{}, fmt.Errorf("%w: %s", correction.ErrUnknownApproval, s.config.ApprovalMode)
	}
}

// Reject implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Reject(ctx context.Context, id string, req correction.RejectRequest, reviewer string) (correction.RequestResponse, error) {
	if err := validator.Struct(req); err != nil {
		return correction.RequestResponse{}, err
	}

	reason := strings.TrimSpace(req.Reason)
	rejected, err := s.requestRepo.Resolve(ctx, id, correction.Resolution{
		Status:       correction.StatusRejected,
		RejectReason: &reason,
		ResolvedBy:   reviewer,
		At:           s.settingsService.Now(),
	})
	if err != nil {
		return correction.RequestResponse{}, err
	}
	return s.resolved(rejected), nil
}

// ReapplyApproval implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ReapplyApproval(ctx context.Context, id string) (correction.RequestResponse, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return correction.RequestResponse{}, err
	}
	if req.Status != correction.StatusApproved {
		return correction.RequestResponse{}, correction.ErrNotApproved
	}
	if err := s.ensureOpen(ctx, req); err != nil {
		return correction.RequestResponse{}, err
	}
	if err := s.apply(ctx, req); err != nil {
		return correction.RequestResponse{}, err
	}
	return correction.ToResponse(*req), nil
}

// ListPending implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListPending(ctx context.Context, req correction.ListPendingRequest) ([]correction.RequestResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	pending, err := s.requestRepo.List(ctx, correction.ListFilter{
		Department: req.Department,
		Statuses:   []correction.Status{correction.StatusPending},
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	out := make([]correction.RequestResponse, 0, len(pending))
	for _, r := range pending {
		out = append(out, correction.ToResponse(r))
	}
	return out, nil
}

// PendingKeys implements correction.CorrectionService.
func (s *CorrectionServiceImpl) PendingKeys(ctx context.Context, department string) (correction.PendingKeysResponse, error) {
	pending, err := s.requestRepo.List(ctx, correction.ListFilter{
		Department: department,
		Statuses:   []correction.Status{correction.StatusPending},
	})
	if err != nil {
		return correction.PendingKeysResponse{}, fmt.Errorf("failed to list pending requests: %w", err)
	}

	keys := make([]string, 0, len(pending))
	for _, r := range pending {
		keys = append(keys, r.Key().String())
	}
	sort.Strings(keys)
	return correction.PendingKeysResponse{Keys: keys}, nil
}

// ReconcileApproved implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ReconcileApproved(ctx context.Context) (correction.ReconcileResult, error) {
	// newest first, so the first request seen for a key is the one that counts
	unapplied, err := s.requestRepo.List(ctx, correction.ListFilter{
		Statuses:      []correction.Status{correction.StatusApproved},
		UnappliedOnly: true,
	})
	if err != nil {
		return correction.ReconcileResult{}, fmt.Errorf("failed to list unapplied approvals: %w", err)
	}

	var result correction.ReconcileResult
	var errs []error
	seen := make(map[string]bool, len(unapplied))
	for i := range unapplied {
		req := &unapplied[i]
		key := req.Key().String()

		superseded := seen[key]
		seen[key] = true
		if !superseded {
			superseded, err = s.overwritten(ctx, req)
			if err != nil {
				result.Failed++
				errs = append(errs, fmt.Errorf("request %s: %w", req.ID, err))
				continue
			}
		}
		if superseded {
			if err := s.requestRepo.MarkApplied(ctx, req.ID, s.settingsService.Now()); err != nil {
				result.Failed++
				errs = append(errs, fmt.Errorf("request %s: %w", req.ID, err))
				continue
			}
			slog.Warn("Skipped superseded approval", "request_id", req.ID, "key", key)
			result.Superseded++
			continue
		}

		if err := s.ensureOpen(ctx, req); err != nil {
			if errors.Is(err, settings.ErrLockedPeriod) {
				slog.Warn("Approved request left unapplied in locked month", "request_id", req.ID, "key", key)
				result.Locked++
				continue
			}
			result.Failed++
			errs = append(errs, fmt.Errorf("request %s: %w", req.ID, err))
			continue
		}
		if err := s.apply(ctx, req); err != nil {
			result.Failed++
			errs = append(errs, fmt.Errorf("request %s: %w", req.ID, err))
			continue
		}
		result.Applied++
	}

	if result != (correction.ReconcileResult{}) {
		slog.Info("Reconciled approved requests",
			"applied", result.Applied, "failed", result.Failed, "superseded", result.Superseded, "locked", result.Locked)
	}
	return result, errors.Join(errs...)
}

// ensureApprovable loads a pending request and refuses it when its month is locked
func (s *CorrectionServiceImpl) ensureApprovable(ctx context.Context, id string) error {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != correction.StatusPending {
		return correction.ErrRequestNotFound
	}
	return s.ensureOpen(ctx, req)
}

func (s *CorrectionServiceImpl) ensureOpen(ctx context.Context, req *correction.Request) error {
	locked, err := s.settingsService.IsLocked(ctx, req.Month, req.Year)
	if err != nil {
		return err
	}
	if locked {
		return settings.ErrLockedPeriod
	}
	return nil
}

// overwritten reports whether the key was written after the request was approved
func (s *CorrectionServiceImpl) overwritten(ctx context.Context, req *correction.Request) (bool, error) {
	rec, err := s.attendanceRepo.Get(ctx, req.Key())
	if errors.Is(err, attendance.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read attendance %s: %w", req.Key(), err)
	}
	// Resolve stamps the approval time into CreatedAt
	return rec.UpdatedAt.After(req.CreatedAt), nil
}

// apply writes the requested code and stamps the request as applied
func (s *CorrectionServiceImpl) apply(ctx context.Context, req *correction.Request) error {
	if err := s.attendanceService.Write(ctx, req.Key(), req.Department, req.RequestedCode); err != nil {
		return err
	}
	at := s.settingsService.Now()
	if err := s.requestRepo.MarkApplied(ctx, req.ID, at); err != nil {
		return fmt.Errorf("failed to mark request applied: %w", err)
	}
	req.AppliedAt = &at
	return nil
}

func (s *CorrectionServiceImpl) resolved(req *correction.Request) correction.RequestResponse {
	resp := correction.ToResponse(*req)
	s.hub.Broadcast(req.Department, sse.Event{Event: notification.EventRequestResolved, Data: resp})
	slog.Info("Correction request resolved", "request_id", req.ID, "status", req.Status)
	return resp
}
