package services

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/restomart/toast-etl/modules/pos/exports"
	"github.com/restomart/toast-etl/modules/pos/infrastructure/persistence"
)

// OrdersLoader loads orders and their associated checks. An order and its
// matched checks commit as one unit: a failure anywhere in the unit rolls
// the whole unit back and processing continues with the next order.
type OrdersLoader struct {
	db       *sqlx.DB
	resolver *persistence.Resolver
	repo     *persistence.OrderRepository
	log      *logrus.Logger
}

// OrdersResult carries separate counters for orders and checks.
type OrdersResult struct {
	Orders Stats
	Checks Stats
}

func NewOrdersLoader(db *sqlx.DB, log *logrus.Logger) *OrdersLoader {
	return &OrdersLoader{
		db:       db,
		resolver: persistence.NewResolver(),
		repo:     persistence.NewOrderRepository(),
		log:      log,
	}
}

func (l *OrdersLoader) Load(ctx context.Context, orders []exports.OrderRow, checks []exports.CheckRow) OrdersResult {
	byNumber := make(map[int][]exports.CheckRow, len(checks))
	for _, c := range checks {
		byNumber[c.CheckNumber] = append(byNumber[c.CheckNumber], c)
	}

	var res OrdersResult
	for _, o := range orders {
		if err := l.loadOne(ctx, o, byNumber, &res); err != nil {
			res.Orders.Errors++
			entry := l.log.WithError(err).WithField("order", o.OrderNumber)
			if errors.Is(err, persistence.ErrUnresolved) {
				entry.Warn("skipping order: unresolved dimension reference")
			} else {
				entry.Error("failed to load order")
			}
		}
	}

	l.log.WithFields(res.Orders.Fields()).Info("orders load complete")
	l.log.WithFields(res.Checks.Fields()).Info("checks load complete")
	return res
}

func (l *OrdersLoader) loadOne(ctx context.Context, o exports.OrderRow, byNumber map[int][]exports.CheckRow, res *OrdersResult) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	locationID, err := l.resolver.Location(ctx, tx, o.Location)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	serverID, err := l.resolver.Server(ctx, tx, o.Server)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	orderID, orderInserted, err := l.repo.Insert(ctx, tx, locationID, serverID, o)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	numbers, bad := exports.ParseCheckNumbers(o.Checks)
	for _, token := range bad {
		l.log.WithFields(logrus.Fields{"order": o.OrderNumber, "token": token}).
			Warn("ignoring malformed check number")
	}
	if len(numbers) == 0 {
		l.log.WithField("order", o.OrderNumber).Warn("no checks listed for order")
	}

	checksInserted, checksSkipped := 0, 0
	for _, number := range numbers {
		matches := byNumber[number]
		if len(matches) == 0 {
			l.log.WithFields(logrus.Fields{"order": o.OrderNumber, "check_number": number}).
				Warn("no matching check row in export")
			continue
		}
		for _, c := range matches {
			inserted, err := l.repo.InsertCheck(ctx, tx, orderID, c)
			if err != nil {
				_ = tx.Rollback()
				return err
			}
			if inserted {
				checksInserted++
			} else {
				checksSkipped++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit order")
	}

	if orderInserted {
		res.Orders.Inserted++
		l.log.WithField("order", o.OrderNumber).Debug("inserted order")
	} else {
		res.Orders.Skipped++
		l.log.WithField("order", o.OrderNumber).Debug("order already loaded, skipped")
	}
	res.Checks.Inserted += checksInserted
	res.Checks.Skipped += checksSkipped
	return nil
}
