package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables when they do not exist yet
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
