package persistence

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/restomart/toast-etl/modules/pos/exports"
)

// OrderRepository upserts order and check fact rows. Both are immutable once
// inserted; conflicts mean the row was loaded by an earlier run.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Insert writes one order under conflict-skip semantics keyed on order_id.
// On conflict it falls back to selecting the previously loaded order's id so
// the order's checks can still be associated on re-runs.
func (r *OrderRepository) Insert(ctx context.Context, tx *sqlx.Tx, locationID, serverID int64, o exports.OrderRow) (int64, bool, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
	INSERT INTO orders (
		location_id, order_id, order_number, opened_at, closed_at, paid_at,
		guest_count, tab_names, server_id, table_number, revenue_center,
		dining_area, service_period, dining_option, discount_amount,
		subtotal, tax, tip, gratuity, total, is_voided,
		duration_minutes, order_source
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
	)
	ON CONFLICT (order_id) DO NOTHING
	RETURNING id
	`,
		locationID,
		o.OrderID,
		o.OrderNumber,
		o.Opened,
		o.Closed,
		o.Paid,
		o.GuestCount,
		o.TabNames,
		serverID,
		o.TableNumber,
		o.RevenueCenter,
		o.DiningArea,
		o.ServicePeriod,
		o.DiningOption,
		o.DiscountAmount,
		o.Subtotal,
		o.Tax,
		o.Tip,
		o.Gratuity,
		o.Total,
		o.Voided,
		o.DurationMinutes,
		o.OrderSource,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, errors.Wrapf(err, "failed to insert order %d", o.OrderID)
	}

	if err := tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE order_id = $1`, o.OrderID).Scan(&id); err != nil {
		return 0, false, errors.Wrapf(err, "failed to look up order %d", o.OrderID)
	}
	return id, false, nil
}

// InsertCheck writes one check under conflict-skip semantics keyed on
// (order_id, check_number) and reports whether a row was inserted.
func (r *OrderRepository) InsertCheck(ctx context.Context, tx *sqlx.Tx, orderID int64, c exports.CheckRow) (bool, error) {
	res, err := tx.ExecContext(ctx, `
	INSERT INTO checks (
		order_id, check_id, check_number, customer_id, customer_name,
		customer_phone, customer_email, customer_family, location_code,
		opened_date, opened_time, item_description, table_size,
		discount, discount_reason, tax, tender, total, receipt_link
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19
	)
	ON CONFLICT (order_id, check_number) DO NOTHING
	`,
		orderID,
		c.CheckID,
		strconv.Itoa(c.CheckNumber),
		c.CustomerID,
		c.CustomerName,
		c.CustomerPhone,
		c.CustomerEmail,
		c.CustomerFamily,
		c.LocationCode,
		c.OpenedDate,
		c.OpenedTime,
		c.ItemDescription,
		c.TableSize,
		c.Discount,
		c.DiscountReason,
		c.Tax,
		c.Tender,
		c.Total,
		c.ReceiptLink,
	)
	if err != nil {
		return false, errors.Wrapf(err, "failed to insert check %d", c.CheckID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "failed to read result for check %d", c.CheckID)
	}
	return n > 0, nil
}
