package symbol

import "context"

type SymbolService interface {
	// Catalog returns the last saved catalog; the default seed is saved on first use.
	Catalog(ctx context.Context) (Catalog, error)
	Get(ctx context.Context) (CatalogResponse, error)
	Save(ctx context.Context, req SaveCatalogRequest) (CatalogResponse, error)
	ApplyOperations(ctx context.Context, req ApplyOperationsRequest) (CatalogResponse, error)
	ResetToDefault(ctx context.Context) (CatalogResponse, error)
}
