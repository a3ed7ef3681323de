package symbol

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/notification"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/khoa-hris/chamcong-backend-go/internal/fixtures"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

type symbolServiceImpl struct {
	repo symbol.SymbolRepository
	hub  *sse.Hub
}

func NewSymbolService(repo symbol.SymbolRepository, hub *sse.Hub) symbol.SymbolService {
	return &symbolServiceImpl{
		repo: repo,
		hub:  hub,
	}
}

// Catalog implements symbol.SymbolService.
func (s *symbolServiceImpl) Catalog(ctx context.Context) (symbol.Catalog, error) {
	catalog, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load symbol catalog: %w", err)
	}
	if len(catalog) > 0 {
		return catalog, nil
	}

	catalog = fixtures.DefaultSymbols()
	if err := s.repo.ReplaceAll(ctx, catalog); err != nil {
		return nil, fmt.Errorf("failed to seed symbol catalog: %w", err)
	}
	slog.Info("Seeded default symbol catalog", "count", len(catalog))
	return catalog, nil
}

// Get implements symbol.SymbolService.
func (s *symbolServiceImpl) Get(ctx context.Context) (symbol.CatalogResponse, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return symbol.CatalogResponse{}, err
	}
	return symbol.ToCatalogResponse(catalog), nil
}

// Save implements symbol.SymbolService.
func (s *symbolServiceImpl) Save(ctx context.Context, req symbol.SaveCatalogRequest) (symbol.CatalogResponse, error) {
	if err := validator.Struct(req); err != nil {
		return symbol.CatalogResponse{}, err
	}

	catalog := make(symbol.Catalog, len(req.Symbols))
	for i, in := range req.Symbols {
		catalog[i] = in.ToSymbol()
	}
	return s.save(ctx, catalog)
}

// ApplyOperations implements symbol.SymbolService.
func (s *symbolServiceImpl) ApplyOperations(ctx context.Context, req symbol.ApplyOperationsRequest) (symbol.CatalogResponse, error) {
	if err := validator.Struct(req); err != nil {
		return symbol.CatalogResponse{}, err
	}

	draft, err := s.Catalog(ctx)
	if err != nil {
		return symbol.CatalogResponse{}, err
	}

	for i, op := range req.Operations {
		draft, err = apply(draft, op)
		if err != nil {
			return symbol.CatalogResponse{}, fmt.Errorf("operation %d (%s): %w", i, op.Op, err)
		}
	}
	return s.save(ctx, draft)
}

// ResetToDefault implements symbol.SymbolService.
func (s *symbolServiceImpl) ResetToDefault(ctx context.Context) (symbol.CatalogResponse, error) {
	return s.save(ctx, fixtures.DefaultSymbols())
}

func (s *symbolServiceImpl) save(ctx context.Context, catalog symbol.Catalog) (symbol.CatalogResponse, error) {
	if err := catalog.Validate(); err != nil {
		return symbol.CatalogResponse{}, err
	}

	catalog = catalog.Normalize()
	if err := s.repo.ReplaceAll(ctx, catalog); err != nil {
		return symbol.CatalogResponse{}, fmt.Errorf("failed to save symbol catalog: %w", err)
	}

	resp := symbol.ToCatalogResponse(catalog)
	s.hub.Publish(sse.TopicSystem, sse.Event{Event: notification.EventCatalogSaved, Data: resp})
	slog.Info("Symbol catalog saved", "count", len(catalog))
	return resp, nil
}

func apply(draft symbol.Catalog, op symbol.Operation) (symbol.Catalog, error) {
	switch op.Op {
	case symbol.OpUpsert:
		if op.Symbol == nil {
			return draft, fmt.Errorf("%w: upsert needs a symbol", symbol.ErrInvalidOperation)
		}
		if err := validator.Struct(*op.Symbol); err != nil {
			return draft, err
		}
		return draft.Upsert(op.Symbol.ToSymbol()), nil
	case symbol.OpRemove:
		return draft.Remove(op.Code)
	case symbol.OpReorder:
		return draft.Reorder(op.From, op.To)
	case symbol.OpMove:
		dir := symbol.Down
		if strings.EqualFold(op.Direction, "up") {
			dir = symbol.Up
		}
		return draft.MoveAdjacent(op.Index, dir)
	case symbol.OpReset:
		return fixtures.DefaultSymbols(), nil
	}
	return draft, symbol.ErrInvalidOperation
}
