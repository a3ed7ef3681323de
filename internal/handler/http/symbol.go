package http

import (
	"net/http"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/response"
)

type SymbolHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	ApplyOperations(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type symbolHandlerImpl struct {
	symbolService symbol.SymbolService
}

func NewSymbolHandler(symbolService symbol.SymbolService) SymbolHandler {
	return &symbolHandlerImpl{symbolService: symbolService}
}

func (h *symbolHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.symbolService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, catalog)
}

func (h *symbolHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req symbol.SaveCatalogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	catalog, err := h.symbolService.Save(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Symbol catalog saved", catalog)
}

func (h *symbolHandlerImpl) ApplyOperations(w http.ResponseWriter, r *http.Request) {
	var req symbol.ApplyOperationsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	catalog, err := h.symbolService.ApplyOperations(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Symbol catalog saved", catalog)
}

func (h *symbolHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.symbolService.ResetToDefault(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Symbol catalog reset to defaults", catalog)
}
