package http

import (
	"net/http"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/response"
)

// SettingsHandler serves the lock settings and the policy queries built on them
type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Classify(w http.ResponseWriter, r *http.Request)
	LockStatus(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

func (h *settingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, cfg)
}

func (h *settingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cfg, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Settings saved", cfg)
}

func (h *settingsHandlerImpl) Classify(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.Classify(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *settingsHandlerImpl) LockStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.LockStatus(r.Context(), getIntQueryParam(r, "month", 0), getIntQueryParam(r, "year", 0))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
