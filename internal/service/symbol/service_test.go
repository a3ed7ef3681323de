package symbol

import (
	"context"
	"testing"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/khoa-hris/chamcong-backend-go/internal/fixtures"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/sse"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
	"github.com/khoa-hris/chamcong-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (symbol.SymbolService, *sse.Hub) {
	hub := sse.NewHub()
	return NewSymbolService(memory.NewSymbolRepository(memory.NewStore()), hub), hub
}

func TestSymbolService_SeedsDefaults(t *testing.T) {
	svc, _ := newTestService()

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixtures.DefaultSymbols(), catalog)
}

func TestSymbolService_SaveReassignsOrder(t *testing.T) {
	ctx := context.Background()
	svc, hub := newTestService()
	events, cleanup := hub.Subscribe(sse.TopicSystem)
	defer cleanup()

	resp, err := svc.Save(ctx, symbol.SaveCatalogRequest{Symbols: []symbol.SymbolInput{
		{Code: "KP", Label: "Không phép", Val: decimal.NewFromInt(1), Type: symbol.CategoryUnpaid},
		{Code: "X", Label: "Đi làm", Val: decimal.NewFromInt(1), Type: symbol.CategorySalary},
	}})
	require.NoError(t, err)
	require.Len(t, resp.Symbols, 2)
	assert.Equal(t, "KP", resp.Symbols[0].Code)
	assert.Equal(t, 1, resp.Symbols[0].Order)
	assert.Equal(t, 2, resp.Symbols[1].Order)

	select {
	case ev := <-events:
		assert.Equal(t, "catalog.saved", ev.Event)
	case <-time.After(time.Second):
		t.Fatal("expected catalog.saved event")
	}
}

func TestSymbolService_SaveValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Save(ctx, symbol.SaveCatalogRequest{Symbols: []symbol.SymbolInput{
		{Code: "X", Val: decimal.NewFromInt(-1), Type: symbol.CategorySalary},
	}})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "symbols[0].val")

	_, err = svc.Save(ctx, symbol.SaveCatalogRequest{Symbols: []symbol.SymbolInput{
		{Code: "X", Val: decimal.NewFromInt(1), Type: "BONUS"},
	}})
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "symbols[0].type")
}

func TestSymbolService_SaveResetReload(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Save(ctx, symbol.SaveCatalogRequest{Symbols: []symbol.SymbolInput{
		{Code: "X", Val: decimal.NewFromInt(1), Type: symbol.CategorySalary},
	}})
	require.NoError(t, err)

	_, err = svc.ResetToDefault(ctx)
	require.NoError(t, err)

	reloaded, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 20)
	assert.Equal(t, fixtures.DefaultSymbols(), reloaded)
}

func TestSymbolService_ApplyOperations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	resp, err := svc.ApplyOperations(ctx, symbol.ApplyOperationsRequest{Operations: []symbol.Operation{
		{Op: symbol.OpUpsert, Symbol: &symbol.SymbolInput{Code: "XN", Label: "Xét nghiệm", Val: decimal.RequireFromString("0.5"), Type: symbol.CategorySalary}},
		{Op: symbol.OpReorder, From: 20, To: 0},
		{Op: symbol.OpMove, Index: 0, Direction: "down"},
		{Op: symbol.OpRemove, Code: "DS"},
	}})
	require.NoError(t, err)

	require.Len(t, resp.Symbols, 20)
	assert.Equal(t, "X", resp.Symbols[0].Code)
	assert.Equal(t, "XN", resp.Symbols[1].Code)
	for i, s := range resp.Symbols {
		assert.Equal(t, i+1, s.Order)
		assert.NotEqual(t, "DS", s.Code)
	}
}

func TestSymbolService_ApplyOperationsFailureKeepsSaved(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.ApplyOperations(ctx, symbol.ApplyOperationsRequest{Operations: []symbol.Operation{
		{Op: symbol.OpRemove, Code: "X"},
		{Op: symbol.OpReorder, From: 0, To: 99},
	}})
	assert.ErrorIs(t, err, symbol.ErrIndexOutOfRange)

	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	assert.True(t, catalog.Has("X"), "a failed batch must not persist its draft")
}

func TestSymbolService_EmptyCatalogRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Save(ctx, symbol.SaveCatalogRequest{Symbols: []symbol.SymbolInput{
		{Code: "X", Label: "Đi làm", Val: decimal.NewFromInt(1), Type: symbol.CategorySalary},
	}})
	require.NoError(t, err)

	_, err = svc.Save(ctx, symbol.SaveCatalogRequest{Symbols: []symbol.SymbolInput{}})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "symbols")

	_, err = svc.ApplyOperations(ctx, symbol.ApplyOperationsRequest{Operations: []symbol.Operation{
		{Op: symbol.OpRemove, Code: "X"},
	}})
	require.ErrorAs(t, err, &errs)

	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1, "clearing must not fall back to the defaults")
	assert.Equal(t, "X", catalog[0].Code)
}
