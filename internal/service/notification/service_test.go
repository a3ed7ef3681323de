package notification

import (
	"context"
	"testing"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/notification"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
	"github.com/khoa-hris/chamcong-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dept = "Khoa Nội"

var base = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, repo correction.RequestRepository, id, department string, offset time.Duration) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &correction.Request{
		ID:            id,
		EmployeeID:    "NV002",
		Department:    department,
		Day:           14,
		Month:         3,
		Year:          2026,
		RequestedCode: "X",
		Reason:        "quên chấm",
		Status:        correction.StatusPending,
		CreatedAt:     base.Add(offset),
	}))
}

func resolve(t *testing.T, repo correction.RequestRepository, id string, status correction.Status, at time.Duration) {
	t.Helper()
	_, err := repo.Resolve(context.Background(), id, correction.Resolution{
		Status:     status,
		ResolvedBy: "giamdoc",
		At:         base.Add(at),
	})
	require.NoError(t, err)
}

func newFeed(t *testing.T) (notification.Service, correction.RequestRepository, *sse.Hub) {
	t.Helper()
	repo := memory.NewRequestRepository(memory.NewStore())
	hub := sse.NewHub()
	return NewNotificationService(repo, hub), repo, hub
}

func TestList_ResolvedNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newFeed(t)

	seed(t, repo, "a", dept, 0)
	seed(t, repo, "b", dept, time.Minute)
	seed(t, repo, "c", dept, 2*time.Minute)
	seed(t, repo, "other", "Khoa Ngoại", 0)
	resolve(t, repo, "b", correction.StatusRejected, time.Hour)
	resolve(t, repo, "a", correction.StatusApproved, 2*time.Hour)
	resolve(t, repo, "other", correction.StatusApproved, time.Hour)

	got, err := svc.List(ctx, notification.ListFeedRequest{Department: dept})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "a", got.Items[0].ID)
	assert.Equal(t, "b", got.Items[1].ID)
	assert.Equal(t, 2, got.UnreadCount)

	_, err = svc.List(ctx, notification.ListFeedRequest{})
	assert.ErrorIs(t, err, notification.ErrDepartmentRequired)
}

func TestMarkAllRead_OnlyFetchedBatch(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newFeed(t)

	seed(t, repo, "a", dept, 0)
	seed(t, repo, "b", dept, time.Minute)
	resolve(t, repo, "a", correction.StatusApproved, time.Hour)

	feed, err := svc.List(ctx, notification.ListFeedRequest{Department: dept})
	require.NoError(t, err)
	ids := make([]string, 0, len(feed.Items))
	for _, it := range feed.Items {
		ids = append(ids, it.ID)
	}

	// resolved after the client fetched its batch
	resolve(t, repo, "b", correction.StatusRejected, 2*time.Hour)

	got, err := svc.MarkAllRead(ctx, notification.MarkAllReadRequest{Department: dept, IDs: ids})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Marked)

	count, err := svc.UnreadCount(ctx, dept)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// marking again is a no-op
	got, err = svc.MarkAllRead(ctx, notification.MarkAllReadRequest{Department: dept, IDs: ids})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Marked)
}

func TestMarkAllRead_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFeed(t)

	_, err := svc.MarkAllRead(ctx, notification.MarkAllReadRequest{Department: dept})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "ids")

	_, err = svc.MarkAllRead(ctx, notification.MarkAllReadRequest{IDs: []string{"a"}})
	assert.ErrorIs(t, err, notification.ErrDepartmentRequired)
}

func TestMarkAllRead_IgnoresOtherDepartments(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newFeed(t)

	seed(t, repo, "other", "Khoa Ngoại", 0)
	resolve(t, repo, "other", correction.StatusApproved, time.Hour)

	got, err := svc.MarkAllRead(ctx, notification.MarkAllReadRequest{Department: dept, IDs: []string{"other"}})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Marked)

	count, err := svc.UnreadCount(ctx, "Khoa Ngoại")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubscribe_MergesSystemEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, _, hub := newFeed(t)

	events, cleanup := svc.Subscribe(ctx, dept)
	defer cleanup()

	hub.Broadcast(dept, sse.Event{Event: notification.EventAttendanceChanged, Data: "k"})
	hub.Broadcast("Khoa Ngoại", sse.Event{Event: notification.EventAttendanceChanged, Data: "skip"})
	hub.Publish(sse.TopicSystem, sse.Event{Event: notification.EventCatalogSaved})

	var got []string
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev.Event)
		case <-time.After(time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.ElementsMatch(t, []string{notification.EventAttendanceChanged, notification.EventCatalogSaved}, got)
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, _, hub := newFeed(t)

	events, cleanup := svc.Subscribe(ctx, dept)
	cancel()
	cleanup()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream did not close")
	}
	assert.Equal(t, 0, hub.TotalSubscribers())
}
