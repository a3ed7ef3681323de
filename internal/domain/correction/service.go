package correction

import "context"

type CorrectionService interface {
	Submit(ctx context.Context, req SubmitRequest) (RequestResponse, error)
	Approve(ctx context.Context, id string, reviewer string) (RequestResponse, error)
	Reject(ctx context.Context, id string, req RejectRequest, reviewer string) (RequestResponse, error)
	// ReapplyApproval writes the attendance of an approved request again. Idempotent.
	ReapplyApproval(ctx context.Context, id string) (RequestResponse, error)

	ListPending(ctx context.Context, req ListPendingRequest) ([]RequestResponse, error)
	PendingKeys(ctx context.Context, department string) (PendingKeysResponse, error)

	// ReconcileApproved re-applies approved requests whose attendance write never landed.
	// Only the newest unapplied approval per key is written, and only when no later
	// write reached that key and its month is still open.
	ReconcileApproved(ctx context.Context) (ReconcileResult, error)
}
