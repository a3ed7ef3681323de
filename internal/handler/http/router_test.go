package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/backup"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/notification"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/khoa-hris/chamcong-backend-go/internal/fixtures"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/jwt"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/storage"
	"github.com/khoa-hris/chamcong-backend-go/internal/repository/memory"
	attendanceService "github.com/khoa-hris/chamcong-backend-go/internal/service/attendance"
	backupService "github.com/khoa-hris/chamcong-backend-go/internal/service/backup"
	correctionService "github.com/khoa-hris/chamcong-backend-go/internal/service/correction"
	employeeService "github.com/khoa-hris/chamcong-backend-go/internal/service/employee"
	notificationService "github.com/khoa-hris/chamcong-backend-go/internal/service/notification"
	settingsService "github.com/khoa-hris/chamcong-backend-go/internal/service/settings"
	symbolService "github.com/khoa-hris/chamcong-backend-go/internal/service/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *chi.Mux
	jwt    jwt.Service
}

// newTestServer wires the full router on the memory store at 09:00 on 2026-03-15
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	hcm := time.FixedZone("ICT", 7*60*60)
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, hcm)

	store := memory.NewStore()
	hub := sse.NewHub()
	employees := memory.NewEmployeeRepository(store)
	for _, e := range fixtures.DemoEmployees() {
		e := e
		require.NoError(t, employees.Create(ctx, &e))
	}
	records := memory.NewAttendanceRepository(store)
	requests := memory.NewRequestRepository(store)

	settingsSvc := settingsService.NewSettingsService(memory.NewSettingsRepository(store), hub, settingsService.Config{
		Location: hcm,
		Clock:    func() time.Time { return now },
	})
	symbolSvc := symbolService.NewSymbolService(memory.NewSymbolRepository(store), hub)
	employeeSvc := employeeService.NewEmployeeService(employees)
	attendanceSvc := attendanceService.NewAttendanceService(store, records, employees, requests, symbolSvc, settingsSvc, hub)
	correctionSvc := correctionService.NewCorrectionService(store, requests, employees, records, attendanceSvc, symbolSvc, settingsSvc, hub, correctionService.Config{})

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	jwtSvc := jwt.NewJWTService("test-secret", time.Hour, time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(logger, []string{"http://localhost:3000"}, jwtSvc, Handlers{
		Attendance:   NewAttendanceHandler(attendanceSvc, employeeSvc),
		Correction:   NewCorrectionHandler(correctionSvc),
		Notification: NewNotificationHandler(notificationService.NewNotificationService(requests, hub), jwtSvc),
		Symbol:       NewSymbolHandler(symbolSvc),
		Settings:     NewSettingsHandler(settingsSvc),
		Employee:     NewEmployeeHandler(employeeSvc),
		Backup:       NewBackupHandler(backupService.NewBackupService(employees, records, requests, symbolSvc, settingsSvc, files)),
	})

	return &testServer{router: router, jwt: jwtSvc}
}

func (s *testServer) token(t *testing.T, p user.Principal) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(p)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

var (
	khoaNoi   = user.Principal{UserID: "khoa-noi", Role: user.RoleDepartment, Department: "Khoa Nội"}
	khoaNgoai = user.Principal{UserID: "khoa-ngoai", Role: user.RoleDepartment, Department: "Khoa Ngoại"}
	director  = user.Principal{UserID: "giam-doc", Role: user.RoleDirector}
	admin     = user.Principal{UserID: "admin", Role: user.RoleAdmin}
)

func query(path string, kv ...string) string {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return path + "?" + v.Encode()
}

func TestRouter_RequiresAccessToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/attendance", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/events/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PermissionsByRole(t *testing.T) {
	s := newTestServer(t)
	edit := map[string]string{"employee_id": "NV001", "date": "2026-03-15", "code": "X"}

	tests := []struct {
		name   string
		who    user.Principal
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"director cannot edit attendance", director, http.MethodPut, "/api/v1/attendance", edit, http.StatusForbidden},
		{"department cannot review", khoaNoi, http.MethodPost, "/api/v1/requests/abc/approve", nil, http.StatusForbidden},
		{"department cannot manage catalog", khoaNoi, http.MethodPost, "/api/v1/symbols/reset", nil, http.StatusForbidden},
		{"department cannot change settings", khoaNoi, http.MethodPut, "/api/v1/settings", map[string]int{"lock_date": 5}, http.StatusForbidden},
		{"director cannot back up", director, http.MethodPost, "/api/v1/admin/backup", nil, http.StatusForbidden},
		{"director has no department feed", director, http.MethodGet, "/api/v1/notifications", nil, http.StatusForbidden},
		{"other department grid", khoaNoi, http.MethodGet, query("/api/v1/attendance", "department", "Khoa Ngoại", "month", "3", "year", "2026"), nil, http.StatusForbidden},
		{"other department employee", khoaNoi, http.MethodPut, "/api/v1/attendance", map[string]string{"employee_id": "NV005", "date": "2026-03-15", "code": "X"}, http.StatusForbidden},
		{"other department totals", khoaNoi, http.MethodGet, query("/api/v1/attendance/totals/NV005", "month", "3", "year", "2026"), nil, http.StatusForbidden},
		{"unknown request", director, http.MethodPost, "/api/v1/requests/abc/approve", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, s.token(t, tt.who), tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_DirectEditAndGrid(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, khoaNoi)

	rec := s.do(t, http.MethodPut, "/api/v1/attendance", token, map[string]string{"employee_id": "NV001", "date": "2026-03-15", "code": "X"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/attendance/bulk", token, map[string]string{"code": "X"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var bulk attendance.BulkMarkResponse
	decodeData(t, rec, &bulk)
	assert.Equal(t, "2026-03-15", bulk.Date)

	rec = s.do(t, http.MethodGet, query("/api/v1/attendance", "month", "3", "year", "2026"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var grid attendance.GridResponse
	decodeData(t, rec, &grid)
	assert.Equal(t, "Khoa Nội", grid.Department)
	assert.Equal(t, 31, grid.DaysInMonth)
	require.Len(t, grid.Rows, 4)
	for _, row := range grid.Rows {
		assert.Equal(t, "X", row.Cells[15], row.Employee.ID)
		assert.Equal(t, "1", row.Totals.Salary.String())
	}

	// past days go through a correction request
	rec = s.do(t, http.MethodPut, "/api/v1/attendance", token, map[string]string{"employee_id": "NV001", "date": "2026-03-10", "code": "X"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/attendance", token, map[string]string{"employee_id": "NV001", "date": "2026-03-16", "code": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/attendance", token, map[string]string{"employee_id": "NV001", "date": "2026-02-27", "code": "X"})
	assert.Equal(t, http.StatusLocked, rec.Code)
}

func TestRouter_CorrectionRoundTrip(t *testing.T) {
	s := newTestServer(t)
	dept := s.token(t, khoaNoi)
	reviewer := s.token(t, director)

	rec := s.do(t, http.MethodPost, "/api/v1/requests", dept, map[string]string{
		"employee_id": "NV002", "date": "2026-03-10", "code": "P", "reason": "quên chấm công",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var submitted correction.RequestResponse
	decodeData(t, rec, &submitted)
	assert.Equal(t, correction.StatusPending, submitted.Status)
	assert.Equal(t, "NV002_10_3_2026", submitted.Key)

	rec = s.do(t, http.MethodPost, "/api/v1/requests", dept, map[string]string{
		"employee_id": "NV002", "date": "2026-03-10", "code": "X", "reason": "again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/requests/pending-keys", dept, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var keys correction.PendingKeysResponse
	decodeData(t, rec, &keys)
	assert.Equal(t, []string{"NV002_10_3_2026"}, keys.Keys)

	rec = s.do(t, http.MethodGet, "/api/v1/requests/pending", reviewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []correction.RequestResponse
	decodeData(t, rec, &pending)
	require.Len(t, pending, 1)

	rec = s.do(t, http.MethodPost, "/api/v1/requests/"+submitted.ID+"/approve", reviewer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/requests/"+submitted.ID+"/reject", reviewer, map[string]string{"reason": "late"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, query("/api/v1/attendance", "month", "3", "year", "2026"), dept, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var grid attendance.GridResponse
	decodeData(t, rec, &grid)
	assert.Empty(t, grid.PendingKeys)
	for _, row := range grid.Rows {
		if row.Employee.ID == "NV002" {
			assert.Equal(t, "P", row.Cells[10])
		}
	}

	rec = s.do(t, http.MethodGet, "/api/v1/notifications", dept, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed notification.FeedResponse
	decodeData(t, rec, &feed)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, 1, feed.UnreadCount)
	assert.Equal(t, correction.StatusApproved, feed.Items[0].Status)

	rec = s.do(t, http.MethodGet, "/api/v1/notifications", s.token(t, khoaNgoai), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var other notification.FeedResponse
	decodeData(t, rec, &other)
	assert.Empty(t, other.Items)

	rec = s.do(t, http.MethodPost, "/api/v1/notifications/read-all", dept, map[string][]string{"ids": {submitted.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", dept, nil)
	var unread notification.UnreadCountResponse
	decodeData(t, rec, &unread)
	assert.Zero(t, unread.UnreadCount)
}

func TestRouter_PolicyAndSettings(t *testing.T) {
	s := newTestServer(t)
	dept := s.token(t, khoaNoi)

	rec := s.do(t, http.MethodGet, query("/api/v1/policy/classify", "date", "2026-03-14"), dept, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var class settings.ClassifyResponse
	decodeData(t, rec, &class)
	assert.False(t, class.Locked)

	rec = s.do(t, http.MethodGet, query("/api/v1/policy/lock", "month", "2", "year", "2026"), dept, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var lock settings.LockStatusResponse
	decodeData(t, rec, &lock)
	assert.True(t, lock.Locked)

	rec = s.do(t, http.MethodPut, "/api/v1/settings", s.token(t, admin), map[string]int{"lock_date": 40})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/settings", s.token(t, admin), map[string]int{"lock_date": 20})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, query("/api/v1/policy/lock", "month", "2", "year", "2026"), dept, nil)
	decodeData(t, rec, &lock)
	assert.False(t, lock.Locked)
}

func TestRouter_EmployeesAndCatalog(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.token(t, admin)

	rec := s.do(t, http.MethodPost, "/api/v1/employees", adminToken, map[string]string{
		"id": "NV_9", "name": "Ngô Văn Tám", "department": "Khoa Nội",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/employees", adminToken, map[string]string{
		"id": "NV009", "name": "Ngô Văn Tám", "department": "Khoa Nội", "position": "Y tá",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/employees", adminToken, map[string]string{
		"id": "NV009", "name": "Ngô Văn Tám", "department": "Khoa Nội",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/employees", s.token(t, khoaNgoai), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		ID         string `json:"id"`
		Department string `json:"department"`
	}
	decodeData(t, rec, &list)
	require.Len(t, list, 3)
	for _, e := range list {
		assert.Equal(t, "Khoa Ngoại", e.Department)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/symbols/ops", adminToken, map[string]interface{}{
		"operations": []map[string]interface{}{{"op": "remove", "code": "DS"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/symbols", s.token(t, khoaNoi), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog struct {
		Symbols []struct {
			Code string `json:"code"`
		} `json:"symbols"`
	}
	decodeData(t, rec, &catalog)
	assert.Len(t, catalog.Symbols, len(fixtures.DefaultSymbols())-1)
}

func TestRouter_BackupCreateAndDownload(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, admin)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/backup", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created backup.CreateBackupResponse
	decodeData(t, rec, &created)
	assert.Equal(t, "backup_hospital_20260315_090000.db", created.Name)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/backup/"+created.Name, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.sqlite3", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("SQLite format 3")))

	rec = s.do(t, http.MethodGet, "/api/v1/admin/backup/passwd", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SSETokenScopesStream(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/events/token", s.token(t, khoaNoi), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp notification.SSETokenResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, 60, resp.ExpiresIn)

	p, err := s.jwt.ValidateSSEToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Khoa Nội", p.Scope())

	// access tokens are not accepted on the stream
	rec = s.do(t, http.MethodGet, query("/api/v1/events/stream", "token", s.token(t, khoaNoi)), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
