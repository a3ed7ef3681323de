package notification

import (
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
)

// ============= Request DTOs =============

type ListFeedRequest struct {
	Department string
	Limit      int
}

// MarkAllReadRequest carries the ids of the feed batch the client is looking at.
// Requests resolved after that batch was fetched stay unread.
type MarkAllReadRequest struct {
	Department string   `json:"-"`
	IDs        []string `json:"ids" validate:"required,min=1,dive,notblank"`
}

// ============= Response DTOs =============

type FeedResponse struct {
	Items       []correction.RequestResponse `json:"items"`
	UnreadCount int                          `json:"unread_count"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type MarkReadResponse struct {
	Marked int `json:"marked"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ============= SSE Event =============

// Event names published on the change hub
const (
	EventAttendanceChanged = "attendance.changed"
	EventRequestCreated    = "request.created"
	EventRequestResolved   = "request.resolved"
	EventCatalogSaved      = "catalog.saved"
	EventSettingsSaved     = "settings.saved"
)

type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
