// Package memory keeps every collection in process memory. It backs the
// "memory" database driver for local runs and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
)

type Store struct {
	mu         sync.RWMutex
	employees  map[string]employee.Employee
	attendance map[string]attendance.Record
	requests   map[string]correction.Request
	symbols    symbol.Catalog
	settings   *settings.Settings
}

func NewStore() *Store {
	return &Store{
		employees:  make(map[string]employee.Employee),
		attendance: make(map[string]attendance.Record),
		requests:   make(map[string]correction.Request),
	}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock takes the write lock unless ctx already runs inside WithTx, which holds it.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// WithTx executes fn with the store locked. Writes go straight to the maps and
// are rolled back from a snapshot when fn fails. Nested calls join the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	employees  map[string]employee.Employee
	attendance map[string]attendance.Record
	requests   map[string]correction.Request
	symbols    symbol.Catalog
	settings   *settings.Settings
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		employees:  make(map[string]employee.Employee, len(s.employees)),
		attendance: make(map[string]attendance.Record, len(s.attendance)),
		requests:   make(map[string]correction.Request, len(s.requests)),
		symbols:    append(symbol.Catalog(nil), s.symbols...),
	}
	for k, v := range s.employees {
		snap.employees[k] = v
	}
	for k, v := range s.attendance {
		snap.attendance[k] = v
	}
	for k, v := range s.requests {
		snap.requests[k] = v
	}
	if s.settings != nil {
		cfg := *s.settings
		snap.settings = &cfg
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.employees = snap.employees
	s.attendance = snap.attendance
	s.requests = snap.requests
	s.symbols = snap.symbols
	s.settings = snap.settings
}
