package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/restomart/toast-etl/modules/pos/exports"
)

// TimeEntryRepository upserts time-clock fact rows, immutable once inserted.
type TimeEntryRepository struct{}

func NewTimeEntryRepository() *TimeEntryRepository {
	return &TimeEntryRepository{}
}

// Insert writes one time entry under conflict-skip semantics keyed on
// (employee_id, in_date) and reports whether a row was inserted. The ids are
// dimension surrogate ids, not the export's external ids.
func (r *TimeEntryRepository) Insert(ctx context.Context, tx *sqlx.Tx, locationID, employeeID, jobID int64, e exports.TimeEntryRow) (bool, error) {
	res, err := tx.ExecContext(ctx, `
	INSERT INTO time_entries (
		location_id, employee_id, job_id, in_date, out_date,
		auto_clock_out, total_hours, unpaid_break_time,
		paid_break_time, payable_hours, cash_tips_declared,
		non_cash_tips, total_gratuity, total_tips,
		tips_withheld, wage, regular_hours, overtime_hours,
		regular_pay, overtime_pay, total_pay
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
	)
	ON CONFLICT (employee_id, in_date) DO NOTHING
	`,
		locationID,
		employeeID,
		jobID,
		e.InDate,
		e.OutDate,
		e.AutoClockOut,
		e.TotalHours,
		e.UnpaidBreakTime,
		e.PaidBreakTime,
		e.PayableHours,
		e.CashTipsDeclared,
		e.NonCashTips,
		e.TotalGratuity,
		e.TotalTips,
		e.TipsWithheld,
		e.Wage,
		e.RegularHours,
		e.OvertimeHours,
		e.RegularPay,
		e.OvertimePay,
		e.TotalPay,
	)
	if err != nil {
		return false, errors.Wrapf(err, "failed to insert time entry for employee %d", e.EmployeeID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "failed to read result for time entry of employee %d", e.EmployeeID)
	}
	return n > 0, nil
}
