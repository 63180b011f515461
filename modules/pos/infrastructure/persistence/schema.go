package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/restomart/toast-etl/migrations"
)

// EnsureSchema applies any pending schema migrations. Safe to call on every
// run; goose tracks the applied version in its own table.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db.DB, migrations.FS)
	if err != nil {
		return errors.Wrap(err, "failed to create migration provider")
	}
	if _, err := provider.Up(ctx); err != nil {
		return errors.Wrap(err, "failed to apply schema migrations")
	}
	return nil
}

// DropSchema rolls all migrations back, dropping every table this tool owns.
func DropSchema(ctx context.Context, db *sqlx.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db.DB, migrations.FS)
	if err != nil {
		return errors.Wrap(err, "failed to create migration provider")
	}
	if _, err := provider.DownTo(ctx, 0); err != nil {
		return errors.Wrap(err, "failed to roll back schema migrations")
	}
	return nil
}
