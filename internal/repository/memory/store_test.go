package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithTxRollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewAttendanceRepository(store)
	key := attendance.Key{EmployeeID: "NV001", Day: 2, Month: 3, Year: 2026}

	require.NoError(t, repo.Set(ctx, &attendance.Record{Key: key, Department: "Khoa Nội", Status: "X"}))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Set(ctx, &attendance.Record{Key: key, Department: "Khoa Nội", Status: "KP"}))
		rec, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "KP", rec.Status)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rec, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "X", rec.Status)
}

func TestStore_WithTxCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewAttendanceRepository(store)
	key := attendance.Key{EmployeeID: "NV001", Day: 2, Month: 3, Year: 2026}

	err := store.WithTx(ctx, func(ctx context.Context) error {
		// nested transactions join the outer one
		return store.WithTx(ctx, func(ctx context.Context) error {
			return repo.Set(ctx, &attendance.Record{Key: key, Department: "Khoa Nội", Status: "P"})
		})
	})
	require.NoError(t, err)

	rec, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "P", rec.Status)
}

func TestAttendanceRepository_SetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(NewStore())
	rec := &attendance.Record{Key: attendance.Key{EmployeeID: "NV001", Day: 2, Month: 3, Year: 2026}, Department: "Khoa Nội", Status: "X"}

	require.NoError(t, repo.Set(ctx, rec))
	require.NoError(t, repo.Set(ctx, rec))

	list, err := repo.ListByMonth(ctx, attendance.MonthFilter{Department: "Khoa Nội", Month: 3, Year: 2026})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	err = repo.Set(ctx, &attendance.Record{Key: attendance.Key{EmployeeID: "NV001", Day: 30, Month: 2, Year: 2026}})
	assert.ErrorIs(t, err, attendance.ErrInvalidKey)
}

func TestRequestRepository_ResolveOnlyPending(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository(NewStore())
	created := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &correction.Request{ID: "r1", Department: "Khoa Nội", Status: correction.StatusPending, CreatedAt: created}))

	resolvedAt := created.Add(time.Hour)
	got, err := repo.Resolve(ctx, "r1", correction.Resolution{Status: correction.StatusApproved, ResolvedBy: "gd", At: resolvedAt})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, got.Status)
	assert.Equal(t, resolvedAt, got.CreatedAt)
	assert.False(t, got.IsRead)

	_, err = repo.Resolve(ctx, "r1", correction.Resolution{Status: correction.StatusRejected, ResolvedBy: "gd", At: resolvedAt})
	assert.ErrorIs(t, err, correction.ErrRequestNotFound)

	_, err = repo.Resolve(ctx, "missing", correction.Resolution{Status: correction.StatusApproved})
	assert.ErrorIs(t, err, correction.ErrRequestNotFound)
}

func TestRequestRepository_MarkReadAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository(NewStore())
	base := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)
	fixtures := []correction.Request{
		{ID: "a", Department: "Khoa Nội", Status: correction.StatusApproved, CreatedAt: base},
		{ID: "b", Department: "Khoa Nội", Status: correction.StatusRejected, CreatedAt: base.Add(time.Minute)},
		{ID: "c", Department: "Khoa Nội", Status: correction.StatusPending, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "d", Department: "Khoa Ngoại", Status: correction.StatusApproved, CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range fixtures {
		require.NoError(t, repo.Create(ctx, &fixtures[i]))
	}

	count, err := repo.CountUnread(ctx, "Khoa Nội")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	marked, err := repo.MarkRead(ctx, "Khoa Nội", []string{"a", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	count, err = repo.CountUnread(ctx, "Khoa Nội")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	list, err := repo.List(ctx, correction.ListFilter{Department: "Khoa Nội", Statuses: []correction.Status{correction.StatusApproved, correction.StatusRejected}})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestRequestRepository_CreateRejectsSecondPending(t *testing.T) {
	ctx := context.Background()
	repo := NewRequestRepository(NewStore())
	pending := func(id string) *correction.Request {
		return &correction.Request{ID: id, EmployeeID: "NV002", Day: 10, Month: 3, Year: 2026, Department: "Khoa Nội", Status: correction.StatusPending}
	}

	var wg sync.WaitGroup
	errs := make([]error, 32)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, pending(fmt.Sprintf("r%02d", i)))
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, correction.ErrDuplicatePending)
	}
	assert.Equal(t, 1, created)

	list, err := repo.List(ctx, correction.ListFilter{Statuses: []correction.Status{correction.StatusPending}})
	require.NoError(t, err)
	require.Len(t, list, 1)

	// once resolved the key is free again
	_, err = repo.Resolve(ctx, list[0].ID, correction.Resolution{Status: correction.StatusRejected, ResolvedBy: "gd"})
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, pending("next")))
}
