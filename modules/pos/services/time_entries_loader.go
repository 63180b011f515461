package services

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/restomart/toast-etl/modules/pos/exports"
	"github.com/restomart/toast-etl/modules/pos/infrastructure/persistence"
)

// TimeEntryLoader loads time-clock records. Every row resolves all three
// dimensions (location, job, employee) before the fact insert.
type TimeEntryLoader struct {
	db       *sqlx.DB
	resolver *persistence.Resolver
	repo     *persistence.TimeEntryRepository
	log      *logrus.Logger
}

func NewTimeEntryLoader(db *sqlx.DB, log *logrus.Logger) *TimeEntryLoader {
	return &TimeEntryLoader{
		db:       db,
		resolver: persistence.NewResolver(),
		repo:     persistence.NewTimeEntryRepository(),
		log:      log,
	}
}

func (l *TimeEntryLoader) Load(ctx context.Context, entries []exports.TimeEntryRow) Stats {
	var stats Stats
	for _, e := range entries {
		inserted, err := l.loadOne(ctx, e)
		if err != nil {
			stats.Errors++
			entry := l.log.WithError(err).WithField("employee", e.EmployeeName)
			if errors.Is(err, persistence.ErrUnresolved) {
				entry.Warn("skipping time entry: unresolved dimension reference")
			} else {
				entry.Error("failed to load time entry")
			}
			continue
		}
		if inserted {
			stats.Inserted++
			l.log.WithField("employee", e.EmployeeName).Debug("inserted time entry")
		} else {
			stats.Skipped++
			l.log.WithField("employee", e.EmployeeName).Debug("time entry already loaded, skipped")
		}
	}
	l.log.WithFields(stats.Fields()).Info("time entries load complete")
	return stats
}

func (l *TimeEntryLoader) loadOne(ctx context.Context, e exports.TimeEntryRow) (bool, error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin transaction")
	}

	locationID, err := l.resolver.Location(ctx, tx, e.Location)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	jobID, err := l.resolver.Job(ctx, tx, e)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	employeeID, err := l.resolver.Employee(ctx, tx, e)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}

	inserted, err := l.repo.Insert(ctx, tx, locationID, employeeID, jobID, e)
	if err != nil {
		_ = tx.Rollback()
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, errors.Wrap(err, "failed to commit time entry")
	}
	return inserted, nil
}
