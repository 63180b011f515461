package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/restomart/toast-etl/modules/pos/exports"
)

// MenuRepository upserts menu fact rows. Menus are immutable once inserted;
// a guid conflict means the menu is already loaded.
type MenuRepository struct{}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{}
}

// Insert writes one menu under conflict-skip semantics and reports whether a
// row was actually inserted.
func (r *MenuRepository) Insert(ctx context.Context, tx *sqlx.Tx, m exports.Menu) (bool, error) {
	res, err := tx.ExecContext(ctx, `
	INSERT INTO menus (
		guid, name, description, id_string,
		orderable_online, orderable_online_status, visibility,
		start_time, end_time, start_time_hhmm, end_time_hhmm,
		start_time_local_standard_time, end_time_local_standard_time,
		start_time_hhmm_local_standard_time, end_time_hhmm_local_standard_time,
		available_all_times, available_all_days,
		days_available_bits, days_available_string
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19
	)
	ON CONFLICT (guid) DO NOTHING
	`,
		m.GUID,
		m.Name,
		m.Description,
		m.IDString,
		m.OrderableOnline,
		m.OrderableOnlineStatus,
		m.Visibility,
		m.StartTime,
		m.EndTime,
		m.StartTimeHHMM,
		m.EndTimeHHMM,
		m.StartTimeLocalStandardTime,
		m.EndTimeLocalStandardTime,
		m.StartTimeHHMMLocalStandardTime,
		m.EndTimeHHMMLocalStandardTime,
		m.AvailableAllTimes,
		m.AvailableAllDays,
		m.DaysAvailableBits,
		pq.Array(m.DaysAvailableString),
	)
	if err != nil {
		return false, errors.Wrapf(err, "failed to insert menu %q", m.Name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "failed to read result for menu %q", m.Name)
	}
	return n > 0, nil
}
