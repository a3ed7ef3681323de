package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type symbolRepository struct {
	db *database.DB
	tx database.TxManager
}

func NewSymbolRepository(db *database.DB) symbol.SymbolRepository {
	return &symbolRepository{db: db, tx: NewTxManager(db)}
}

// List implements symbol.SymbolRepository.
func (r *symbolRepository) List(ctx context.Context) (symbol.Catalog, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT code, label, val::text, type, sort_order FROM symbols ORDER BY sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	defer rows.Close()

	var out symbol.Catalog
	for rows.Next() {
		var (
			s   symbol.Symbol
			val string
		)
		if err := rows.Scan(&s.Code, &s.Label, &val, &s.Type, &s.Order); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		if s.Val, err = decimal.NewFromString(val); err != nil {
			return nil, fmt.Errorf("symbol %s has invalid weight %q: %w", s.Code, val, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplaceAll implements symbol.SymbolRepository.
func (r *symbolRepository) ReplaceAll(ctx context.Context, catalog symbol.Catalog) error {
	return r.tx.WithTx(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, `DELETE FROM symbols`); err != nil {
			return fmt.Errorf("failed to clear symbols: %w", err)
		}
		for _, s := range catalog {
			_, err := q.Exec(ctx,
				`INSERT INTO symbols (code, label, val, type, sort_order) VALUES ($1, $2, $3::numeric, $4, $5)`,
				s.Code, s.Label, s.Val.String(), s.Type, s.Order,
			)
			if err != nil {
				return fmt.Errorf("failed to insert symbol %s: %w", s.Code, err)
			}
		}
		return nil
	})
}

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get implements settings.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	var s settings.Settings
	err := q.QueryRow(ctx, `SELECT lock_date, limit_hour, updated_at FROM settings WHERE id = 1`).
		Scan(&s.LockDate, &s.LimitHour, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settings.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

// Save implements settings.SettingsRepository.
func (r *settingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settings (id, lock_date, limit_hour, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET lock_date = EXCLUDED.lock_date, limit_hour = EXCLUDED.limit_hour, updated_at = EXCLUDED.updated_at
	`
	if _, err := q.Exec(ctx, query, s.LockDate, s.LimitHour, s.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
