package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/notification"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

type service struct {
	requestRepo correction.RequestRepository
	hub         *sse.Hub
}

// NewNotificationService builds the department feed over resolved correction requests
func NewNotificationService(requestRepo correction.RequestRepository, hub *sse.Hub) notification.Service {
	return &service{
		requestRepo: requestRepo,
		hub:         hub,
	}
}

// List returns the department's resolved requests, newest resolution first
func (s *service) List(ctx context.Context, req notification.ListFeedRequest) (notification.FeedResponse, error) {
	if strings.TrimSpace(req.Department) == "" {
		return notification.FeedResponse{}, notification.ErrDepartmentRequired
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	resolved, err := s.requestRepo.List(ctx, correction.ListFilter{
		Department: req.Department,
		Statuses:   []correction.Status{correction.StatusApproved, correction.StatusRejected},
		Limit:      limit,
	})
	if err != nil {
		return notification.FeedResponse{}, fmt.Errorf("failed to list feed: %w", err)
	}

	unread, err := s.requestRepo.CountUnread(ctx, req.Department)
	if err != nil {
		return notification.FeedResponse{}, fmt.Errorf("failed to count unread: %w", err)
	}

	items := make([]correction.RequestResponse, 0, len(resolved))
	for _, r := range resolved {
		items = append(items, correction.ToResponse(r))
	}
	return notification.FeedResponse{Items: items, UnreadCount: unread}, nil
}

func (s *service) UnreadCount(ctx context.Context, department string) (int, error) {
	if strings.TrimSpace(department) == "" {
		return 0, notification.ErrDepartmentRequired
	}
	return s.requestRepo.CountUnread(ctx, department)
}

// MarkAllRead marks read only the ids the client fetched
func (s *service) MarkAllRead(ctx context.Context, req notification.MarkAllReadRequest) (notification.MarkReadResponse, error) {
	if strings.TrimSpace(req.Department) == "" {
		return notification.MarkReadResponse{}, notification.ErrDepartmentRequired
	}
	if err := validator.Struct(req); err != nil {
		return notification.MarkReadResponse{}, err
	}

	marked, err := s.requestRepo.MarkRead(ctx, req.Department, req.IDs)
	if err != nil {
		return notification.MarkReadResponse{}, fmt.Errorf("failed to mark feed read: %w", err)
	}
	return notification.MarkReadResponse{Marked: marked}, nil
}

// Subscribe merges the topic stream with system-wide catalog and settings events
func (s *service) Subscribe(ctx context.Context, topic string) (<-chan notification.SSEEvent, func()) {
	topicCh, topicCleanup := s.hub.Subscribe(topic)
	systemCh, systemCleanup := s.hub.Subscribe(sse.TopicSystem)

	out := make(chan notification.SSEEvent, 16)

	go func() {
		defer close(out)
		for topicCh != nil || systemCh != nil {
			var event sse.Event
			var ok bool
			select {
			case event, ok = <-topicCh:
				if !ok {
					topicCh = nil
					continue
				}
			case event, ok = <-systemCh:
				if !ok {
					systemCh = nil
					continue
				}
			case <-ctx.Done():
				return
			}

			select {
			case out <- notification.SSEEvent{Event: event.Event, Data: event.Data}:
			case <-ctx.Done():
				return
			}
		}
	}()

	cleanup := func() {
		topicCleanup()
		systemCleanup()
	}
	return out, cleanup
}
