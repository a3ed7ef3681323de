package memory

import (
	"context"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
)

type symbolRepository struct {
	s *Store
}

func NewSymbolRepository(s *Store) symbol.SymbolRepository {
	return &symbolRepository{s: s}
}

func (r *symbolRepository) List(ctx context.Context) (symbol.Catalog, error) {
	defer r.s.rlock(ctx)()

	return append(symbol.Catalog(nil), r.s.symbols...), nil
}

func (r *symbolRepository) ReplaceAll(ctx context.Context, catalog symbol.Catalog) error {
	defer r.s.lock(ctx)()

	r.s.symbols = append(symbol.Catalog(nil), catalog...)
	return nil
}

type settingsRepository struct {
	s *Store
}

func NewSettingsRepository(s *Store) settings.SettingsRepository {
	return &settingsRepository{s: s}
}

func (r *settingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	defer r.s.rlock(ctx)()

	if r.s.settings == nil {
		return nil, settings.ErrSettingsNotFound
	}
	cfg := *r.s.settings
	return &cfg, nil
}

func (r *settingsRepository) Save(ctx context.Context, cfg *settings.Settings) error {
	defer r.s.lock(ctx)()

	saved := *cfg
	r.s.settings = &saved
	return nil
}
