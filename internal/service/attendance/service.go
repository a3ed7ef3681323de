package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/notification"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/khoa-hris/chamcong-backend-go/internal/fixtures"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/database"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx              database.TxManager
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	requestRepo     correction.RequestRepository
	symbolService   symbol.SymbolService
	settingsService settings.SettingsService
	hub             *sse.Hub
}

func NewAttendanceService(
	tx database.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	requestRepo correction.RequestRepository,
	symbolService symbol.SymbolService,
	settingsService settings.SettingsService,
	hub *sse.Hub,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:              tx,
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		requestRepo:     requestRepo,
		symbolService:   symbolService,
		settingsService: settingsService,
		hub:             hub,
	}
}

// SetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetStatus(ctx context.Context, req attendance.SetStatusRequest) (attendance.RecordResponse, error) {
	if err := validator.Struct(req); err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.employeeInScope(ctx, req.EmployeeID, req.Scope)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	code := strings.TrimSpace(req.Code)
	if err := s.ensureKnownCode(ctx, code); err != nil {
		return attendance.RecordResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	class, err := s.settingsService.Check(ctx, date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if class != settings.DayDirectEdit {
		return attendance.RecordResponse{}, attendance.ErrRequestRequired
	}

	key := attendance.NewKey(emp.ID, date)
	if err := s.Write(ctx, key, emp.Department, code); err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.ToRecordResponse(attendance.Record{
		Key:        key,
		Department: emp.Department,
		Status:     code,
		UpdatedAt:  s.settingsService.Now(),
	}), nil
}

// Write implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Write(ctx context.Context, key attendance.Key, department, code string) error {
	if err := key.Validate(); err != nil {
		return err
	}

	if code == "" {
		if err := s.attendanceRepo.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear attendance %s: %w", key, err)
		}
	} else {
		rec := &attendance.Record{
			Key:        key,
			Department: department,
			Status:     code,
			UpdatedAt:  s.settingsService.Now(),
		}
		if err := s.attendanceRepo.Set(ctx, rec); err != nil {
			return fmt.Errorf("failed to write attendance %s: %w", key, err)
		}
	}

	s.hub.Broadcast(department, sse.Event{
		Event: notification.EventAttendanceChanged,
		Data:  map[string]string{"key": key.String(), "status": code},
	})
	return nil
}

// BulkMarkToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) BulkMarkToday(ctx context.Context, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error) {
	if err := validator.Struct(req); err != nil {
		return attendance.BulkMarkResponse{}, err
	}
	if req.Scope != "" && req.Scope != req.Department {
		return attendance.BulkMarkResponse{}, user.ErrDepartmentScopeViolation
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = fixtures.WorkCode
	}
	if err := s.ensureKnownCode(ctx, code); err != nil {
		return attendance.BulkMarkResponse{}, err
	}

	today := s.settingsService.Now()
	class, err := s.settingsService.Check(ctx, today)
	if err != nil {
		return attendance.BulkMarkResponse{}, err
	}
	if class != settings.DayDirectEdit {
		return attendance.BulkMarkResponse{}, attendance.ErrRequestRequired
	}

	resp := attendance.BulkMarkResponse{Date: today.Format("2006-01-02"), Code: code}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		employees, err := s.employeeRepo.List(ctx, employee.ListFilter{Department: req.Department})
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		records, err := s.recordsOf(ctx, employees, int(today.Month()), today.Year())
		if err != nil {
			return err
		}

		marked := make(map[string]bool)
		for _, r := range records {
			if r.Day == today.Day() && r.Status != "" {
				marked[r.EmployeeID] = true
			}
		}

		resp.Updated, resp.Skipped = 0, 0
		for _, emp := range employees {
			if marked[emp.ID] {
				resp.Skipped++
				continue
			}
			if err := s.Write(ctx, attendance.NewKey(emp.ID, today), emp.Department, code); err != nil {
				return err
			}
			resp.Updated++
		}
		return nil
	})
	if err != nil {
		return attendance.BulkMarkResponse{}, err
	}

	slog.Info("Bulk attendance marked", "department", req.Department, "code", code, "updated", resp.Updated, "skipped", resp.Skipped)
	return resp, nil
}

// MonthlyTotals implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthlyTotals(ctx context.Context, employeeID string, month, year int) (attendance.TotalsResponse, error) {
	if err := validateMonth(month, year); err != nil {
		return attendance.TotalsResponse{}, err
	}

	records, err := s.attendanceRepo.ListByMonth(ctx, attendance.MonthFilter{EmployeeID: employeeID, Month: month, Year: year})
	if err != nil {
		return attendance.TotalsResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	catalog, err := s.symbolService.Catalog(ctx)
	if err != nil {
		return attendance.TotalsResponse{}, err
	}

	totals := computeTotals(records, catalog, month, year)
	if len(totals.UnknownCodes) > 0 {
		slog.Warn("Attendance codes missing from catalog", "employee_id", employeeID, "month", month, "year", year, "codes", totals.UnknownCodes)
	}

	return attendance.TotalsResponse{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		Totals:     totals,
	}, nil
}

// DepartmentTotals implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DepartmentTotals(ctx context.Context, department string, month, year int) ([]attendance.TotalsResponse, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.ListFilter{Department: department})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	employee.Sort(employees, employee.SortByName)

	records, err := s.recordsOf(ctx, employees, month, year)
	if err != nil {
		return nil, err
	}
	catalog, err := s.symbolService.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string][]attendance.Record)
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	out := make([]attendance.TotalsResponse, 0, len(employees))
	for _, emp := range employees {
		out = append(out, attendance.TotalsResponse{
			EmployeeID: emp.ID,
			Month:      month,
			Year:       year,
			Totals:     computeTotals(byEmployee[emp.ID], catalog, month, year),
		})
	}
	return out, nil
}

// MonthGrid implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthGrid(ctx context.Context, req attendance.GridRequest) (attendance.GridResponse, error) {
	if err := validator.Struct(req); err != nil {
		return attendance.GridResponse{}, err
	}
	if req.Scope != "" && req.Scope != req.Department {
		return attendance.GridResponse{}, user.ErrDepartmentScopeViolation
	}

	employees, err := s.employeeRepo.List(ctx, employee.ListFilter{Department: req.Department})
	if err != nil {
		return attendance.GridResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	filtered := employees[:0]
	for _, e := range employees {
		if e.Matches(req.Query) {
			filtered = append(filtered, e)
		}
	}
	employee.Sort(filtered, req.Sort)

	records, err := s.recordsOf(ctx, filtered, req.Month, req.Year)
	if err != nil {
		return attendance.GridResponse{}, err
	}
	catalog, err := s.symbolService.Catalog(ctx)
	if err != nil {
		return attendance.GridResponse{}, err
	}
	locked, err := s.settingsService.IsLocked(ctx, req.Month, req.Year)
	if err != nil {
		return attendance.GridResponse{}, err
	}

	byEmployee := make(map[string][]attendance.Record)
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	resp := attendance.GridResponse{
		Department:  req.Department,
		Month:       req.Month,
		Year:        req.Year,
		DaysInMonth: attendance.DaysInMonth(req.Month, req.Year),
		Locked:      locked,
		Rows:        make([]attendance.GridRow, 0, len(filtered)),
	}
	for _, emp := range filtered {
		cells := make(map[int]string)
		for _, r := range byEmployee[emp.ID] {
			cells[r.Day] = r.Status
		}
		resp.Rows = append(resp.Rows, attendance.GridRow{
			Employee: employee.ToResponse(emp),
			Cells:    cells,
			Totals:   computeTotals(byEmployee[emp.ID], catalog, req.Month, req.Year),
		})
	}

	resp.PendingKeys, err = s.pendingKeys(ctx, filtered, req.Month, req.Year)
	if err != nil {
		return attendance.GridResponse{}, err
	}
	return resp, nil
}

// AbsentReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AbsentReport(ctx context.Context, req attendance.AbsentReportRequest) (attendance.AbsentReportResponse, error) {
	if err := validator.Struct(req); err != nil {
		return attendance.AbsentReportResponse{}, err
	}
	if req.Scope != "" && req.Scope != req.Department {
		return attendance.AbsentReportResponse{}, user.ErrDepartmentScopeViolation
	}

	date := s.settingsService.Now()
	if req.Date != "" {
		date, _ = validator.IsValidDate(req.Date)
	}

	employees, err := s.employeeRepo.List(ctx, employee.ListFilter{Department: req.Department})
	if err != nil {
		return attendance.AbsentReportResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	employee.Sort(employees, employee.SortByName)

	records, err := s.recordsOf(ctx, employees, int(date.Month()), date.Year())
	if err != nil {
		return attendance.AbsentReportResponse{}, err
	}

	statusOf := make(map[string]string)
	for _, r := range records {
		if r.Day == date.Day() {
			statusOf[r.EmployeeID] = r.Status
		}
	}

	resp := attendance.AbsentReportResponse{
		Department: req.Department,
		Date:       date.Format("2006-01-02"),
		Absent:     []attendance.AbsentEntry{},
	}
	for _, emp := range employees {
		status := statusOf[emp.ID]
		if status == fixtures.WorkCode {
			continue
		}
		if status == "" {
			status = fixtures.AbsentCode
		}
		resp.Absent = append(resp.Absent, attendance.AbsentEntry{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			Position:   emp.Position,
			Status:     status,
		})
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) employeeInScope(ctx context.Context, employeeID, scope string) (*employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if scope != "" && emp.Department != scope {
		return nil, employee.ErrDepartmentForbidden
	}
	return emp, nil
}

func (s *AttendanceServiceImpl) ensureKnownCode(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	catalog, err := s.symbolService.Catalog(ctx)
	if err != nil {
		return err
	}
	if !catalog.Has(code) {
		return validator.ValidationErrors{{Field: "code", Message: fmt.Sprintf("%s: %s", symbol.ErrUnknownCode, code)}}
	}
	return nil
}

// recordsOf loads the month of the given employees, wherever their records were written
func (s *AttendanceServiceImpl) recordsOf(ctx context.Context, employees []employee.Employee, month, year int) ([]attendance.Record, error) {
	if len(employees) == 0 {
		return nil, nil
	}
	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}
	records, err := s.attendanceRepo.ListByMonth(ctx, attendance.MonthFilter{EmployeeIDs: ids, Month: month, Year: year})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (s *AttendanceServiceImpl) pendingKeys(ctx context.Context, employees []employee.Employee, month, year int) ([]string, error) {
	keys := []string{}
	if len(employees) == 0 {
		return keys, nil
	}
	pending, err := s.requestRepo.List(ctx, correction.ListFilter{
		Statuses: []correction.Status{correction.StatusPending},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	listed := make(map[string]bool, len(employees))
	for _, e := range employees {
		listed[e.ID] = true
	}
	for _, r := range pending {
		if listed[r.EmployeeID] && r.Month == month && r.Year == year {
			keys = append(keys, r.Key().String())
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func validateMonth(month, year int) error {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs.Add("month", "must be between 1 and 12")
	}
	if year < 1 {
		errs.Add("year", "must be positive")
	}
	return errs.Err()
}
