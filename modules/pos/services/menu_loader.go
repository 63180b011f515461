package services

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/restomart/toast-etl/modules/pos/exports"
	"github.com/restomart/toast-etl/modules/pos/infrastructure/persistence"
)

// MenuLoader loads MenuExport entries. Menus carry no dimension references,
// so this is the plain shape of the conflict-skip protocol.
type MenuLoader struct {
	db   *sqlx.DB
	repo *persistence.MenuRepository
	log  *logrus.Logger
}

func NewMenuLoader(db *sqlx.DB, log *logrus.Logger) *MenuLoader {
	return &MenuLoader{
		db:   db,
		repo: persistence.NewMenuRepository(),
		log:  log,
	}
}

func (l *MenuLoader) Load(ctx context.Context, menus []exports.Menu) Stats {
	var stats Stats
	for _, m := range menus {
		inserted, err := l.loadOne(ctx, m)
		if err != nil {
			stats.Errors++
			l.log.WithError(err).WithField("menu", m.Name).Error("failed to load menu")
			continue
		}
		if inserted {
			stats.Inserted++
			l.log.WithField("menu", m.Name).Debug("inserted menu")
		} else {
			stats.Skipped++
			l.log.WithField("menu", m.Name).Debug("menu already loaded, skipped")
		}
	}
	l.log.WithFields(stats.Fields()).Info("menu load complete")
	return stats
}

func (l *MenuLoader) loadOne(ctx context.Context, m exports.Menu) (bool, error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin transaction")
	}
	inserted, err := l.repo.Insert(ctx, tx, m)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, errors.Wrap(err, "failed to commit menu")
	}
	return inserted, nil
}
