package symbol

import "context"

type SymbolRepository interface {
	// List returns the saved catalog ordered by Order. Empty when nothing was ever saved.
	List(ctx context.Context) (Catalog, error)
	// ReplaceAll overwrites the saved catalog
	ReplaceAll(ctx context.Context, catalog Catalog) error
}
