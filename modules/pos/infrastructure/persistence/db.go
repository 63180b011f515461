// Package persistence holds the Postgres access layer: the dimension
// resolver and the fact repositories. All SQL lives here; loaders only see
// ids and inserted/skipped results.
package persistence

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Open connects to Postgres through the pgx stdlib driver and verifies the
// connection. The handle is used strictly sequentially within one run.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}
