package services

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/restomart/toast-etl/modules/pos/exports"
	"github.com/restomart/toast-etl/modules/pos/infrastructure/persistence"
	"github.com/restomart/toast-etl/pkg/configuration"
)

// Runner sequences one full load: ensure schema, then menus, orders+checks
// and time entries, over a single database handle. Loaders recover row-level
// failures themselves; only setup failures (schema, unreadable source files)
// abort the run.
type Runner struct {
	db          *sqlx.DB
	files       configuration.ExportOptions
	menus       *MenuLoader
	orders      *OrdersLoader
	timeEntries *TimeEntryLoader
	log         *logrus.Logger
}

// RunReport carries the per-phase summary counts of one run.
type RunReport struct {
	Menus       Stats
	Orders      Stats
	Checks      Stats
	TimeEntries Stats
}

func NewRunner(db *sqlx.DB, files configuration.ExportOptions, log *logrus.Logger) *Runner {
	return &Runner{
		db:          db,
		files:       files,
		menus:       NewMenuLoader(db, log),
		orders:      NewOrdersLoader(db, log),
		timeEntries: NewTimeEntryLoader(db, log),
		log:         log,
	}
}

func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	r.log.Info("ensuring schema")
	if err := persistence.EnsureSchema(ctx, r.db); err != nil {
		return nil, err
	}

	report := &RunReport{}

	r.log.Info("loading menus")
	menus, err := exports.ReadMenus(r.files.MenuPath())
	if err != nil {
		return nil, err
	}
	report.Menus = r.menus.Load(ctx, menus)

	r.log.Info("loading orders and checks")
	orders, orderRowErrs, err := exports.ReadOrders(r.files.OrdersPath())
	if err != nil {
		return nil, err
	}
	checks, checkRowErrs, err := exports.ReadChecks(r.files.ChecksPath())
	if err != nil {
		return nil, err
	}
	res := r.orders.Load(ctx, orders, checks)
	report.Orders = res.Orders
	report.Checks = res.Checks
	report.Orders.Errors += r.logRowErrors(r.files.OrdersFile, orderRowErrs)
	report.Checks.Errors += r.logRowErrors(r.files.ChecksFile, checkRowErrs)

	r.log.Info("loading time entries")
	entries, entryRowErrs, err := exports.ReadTimeEntries(r.files.TimeEntriesPath())
	if err != nil {
		return nil, err
	}
	report.TimeEntries = r.timeEntries.Load(ctx, entries)
	report.TimeEntries.Errors += r.logRowErrors(r.files.TimeEntriesFile, entryRowErrs)

	r.log.WithFields(logrus.Fields{
		"menus":        report.Menus,
		"orders":       report.Orders,
		"checks":       report.Checks,
		"time_entries": report.TimeEntries,
	}).Info("load run complete")
	return report, nil
}

func (r *Runner) logRowErrors(file string, rowErrs []exports.RowError) int {
	for _, re := range rowErrs {
		r.log.WithFields(logrus.Fields{"file": file, "line": re.Line}).
			WithError(re.Err).Error("failed to parse source row")
	}
	return len(rowErrs)
}
