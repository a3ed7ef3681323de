package notification

import (
	"context"
)

// Service is the department's view of resolved correction requests plus the live change stream.
type Service interface {
	List(ctx context.Context, req ListFeedRequest) (FeedResponse, error)
	UnreadCount(ctx context.Context, department string) (int, error)
	MarkAllRead(ctx context.Context, req MarkAllReadRequest) (MarkReadResponse, error)

	// Subscribe streams change events for a topic (a department, or sse.TopicAll)
	Subscribe(ctx context.Context, topic string) (<-chan SSEEvent, func())
}
