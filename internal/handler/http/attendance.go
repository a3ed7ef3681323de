package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Grid(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	BulkMark(w http.ResponseWriter, r *http.Request)
	Absent(w http.ResponseWriter, r *http.Request)
	EmployeeTotals(w http.ResponseWriter, r *http.Request)
	DepartmentTotals(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	employeeService   employee.EmployeeService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, employeeService employee.EmployeeService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		employeeService:   employeeService,
	}
}

// Grid implements AttendanceHandler.
func (h *attendanceHandlerImpl) Grid(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	department, err := departmentFor(p, r.URL.Query().Get("department"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	grid, err := h.attendanceService.MonthGrid(r.Context(), attendance.GridRequest{
		Department: department,
		Month:      getIntQueryParam(r, "month", 0),
		Year:       getIntQueryParam(r, "year", 0),
		Query:      r.URL.Query().Get("q"),
		Sort:       employee.SortBy(r.URL.Query().Get("sort")),
		Scope:      p.Scope(),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, grid)
}

// SetStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.SetStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Scope = p.Scope()

	rec, err := h.attendanceService.SetStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated", rec)
}

// BulkMark implements AttendanceHandler.
func (h *attendanceHandlerImpl) BulkMark(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.BulkMarkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	department, err := departmentFor(p, req.Department)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.Department = department
	req.Scope = p.Scope()

	result, err := h.attendanceService.BulkMarkToday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance marked for today", result)
}

// Absent implements AttendanceHandler.
func (h *attendanceHandlerImpl) Absent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	department, err := departmentFor(p, r.URL.Query().Get("department"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.attendanceService.AbsentReport(r.Context(), attendance.AbsentReportRequest{
		Department: department,
		Date:       r.URL.Query().Get("date"),
		Scope:      p.Scope(),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, report)
}

// EmployeeTotals implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeTotals(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	emp, err := h.employeeService.Get(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if scope := p.Scope(); scope != "" && emp.Department != scope {
		response.HandleError(w, employee.ErrDepartmentForbidden)
		return
	}

	totals, err := h.attendanceService.MonthlyTotals(r.Context(), emp.ID, getIntQueryParam(r, "month", 0), getIntQueryParam(r, "year", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, totals)
}

// DepartmentTotals implements AttendanceHandler.
func (h *attendanceHandlerImpl) DepartmentTotals(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	department, err := departmentFor(p, r.URL.Query().Get("department"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totals, err := h.attendanceService.DepartmentTotals(r.Context(), department, getIntQueryParam(r, "month", 0), getIntQueryParam(r, "year", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, totals)
}
