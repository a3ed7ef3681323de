package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/response"
)

type CorrectionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	PendingKeys(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Reapply(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{correctionService: correctionService}
}

// Submit implements CorrectionHandler.
func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req correction.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SubmittedBy = p.UserID
	req.Scope = p.Scope()

	created, err := h.correctionService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Correction request submitted", created)
}

// ListPending implements CorrectionHandler.
func (h *correctionHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.correctionService.ListPending(r.Context(), correction.ListPendingRequest{
		Department: r.URL.Query().Get("department"),
		Limit:      getIntQueryParam(r, "limit", 0),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, pending)
}

// PendingKeys implements CorrectionHandler.
func (h *correctionHandlerImpl) PendingKeys(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	department, err := departmentFor(p, r.URL.Query().Get("department"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	keys, err := h.correctionService.PendingKeys(r.Context(), department)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, keys)
}

// Approve implements CorrectionHandler.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	approved, err := h.correctionService.Approve(r.Context(), chi.URLParam(r, "id"), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request approved", approved)
}

// Reject implements CorrectionHandler.
func (h *correctionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req correction.RejectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rejected, err := h.correctionService.Reject(r.Context(), chi.URLParam(r, "id"), req, p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request rejected", rejected)
}

// Reapply implements CorrectionHandler.
func (h *correctionHandlerImpl) Reapply(w http.ResponseWriter, r *http.Request) {
	applied, err := h.correctionService.ReapplyApproval(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Approved correction applied", applied)
}

// Reconcile implements CorrectionHandler.
func (h *correctionHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.correctionService.ReconcileApproved(r.Context())
	if err != nil && result.Applied+result.Failed == 0 {
		response.HandleError(w, err)
		return
	}
	// failed re-applies are reported in the counts and stay eligible for the next run
	response.Success(w, result)
}
