package symbol

import (
	"github.com/shopspring/decimal"
)

// ============= Request DTOs =============

type SymbolInput struct {
	Code  string          `json:"code" validate:"notblank,max=16"`
	Label string          `json:"label" validate:"max=100"`
	Val   decimal.Decimal `json:"val"`
	Type  Category        `json:"type" validate:"required,oneof=SALARY UNPAID INSURANCE"`
}

func (in SymbolInput) ToSymbol() Symbol {
	return Symbol{
		Code:  normalizeCode(in.Code),
		Label: in.Label,
		Val:   in.Val,
		Type:  in.Type,
	}
}

// SaveCatalogRequest replaces the whole catalog; order follows the slice.
type SaveCatalogRequest struct {
	Symbols []SymbolInput `json:"symbols" validate:"dive"`
}

type OperationType string

const (
	OpUpsert  OperationType = "upsert"
	OpRemove  OperationType = "remove"
	OpReorder OperationType = "reorder"
	OpMove    OperationType = "move"
	OpReset   OperationType = "reset"
)

// Operation is one edit applied to the saved catalog by ApplyOperations
type Operation struct {
	Op        OperationType `json:"op" validate:"required,oneof=upsert remove reorder move reset"`
	Symbol    *SymbolInput  `json:"symbol,omitempty"`
	Code      string        `json:"code,omitempty"`
	From      int           `json:"from,omitempty"`
	To        int           `json:"to,omitempty"`
	Index     int           `json:"index,omitempty"`
	Direction string        `json:"direction,omitempty" validate:"omitempty,oneof=up down"`
}

type ApplyOperationsRequest struct {
	Operations []Operation `json:"operations" validate:"required,min=1,dive"`
}

// ============= Response DTOs =============

type SymbolResponse struct {
	Code  string          `json:"code"`
	Label string          `json:"label"`
	Val   decimal.Decimal `json:"val"`
	Type  Category        `json:"type"`
	Order int             `json:"order"`
}

type CatalogResponse struct {
	Symbols []SymbolResponse `json:"symbols"`
}

func ToCatalogResponse(c Catalog) CatalogResponse {
	resp := CatalogResponse{Symbols: make([]SymbolResponse, len(c))}
	for i, s := range c {
		resp.Symbols[i] = SymbolResponse{
			Code:  s.Code,
			Label: s.Label,
			Val:   s.Val,
			Type:  s.Type,
			Order: s.Order,
		}
	}
	return resp
}
