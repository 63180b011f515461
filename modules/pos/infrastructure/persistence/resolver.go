package persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/restomart/toast-etl/modules/pos/exports"
	"github.com/restomart/toast-etl/pkg/namefmt"
)

// ErrUnresolved reports a dimension reference that could not be resolved to
// an existing or creatable row. Callers skip the dependent fact row and
// continue.
var ErrUnresolved = errors.New("dimension reference unresolved")

// Resolver maps the natural keys found in export files onto dimension
// surrogate ids, creating rows on first sighting. All methods run inside the
// caller's transaction so a rolled-back fact row never leaves a half-created
// dimension row from that unit behind.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Location resolves a location display name to its id, inserting it on first
// sighting. Location text is matched exactly, without normalization.
func (r *Resolver) Location(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, errors.Wrap(ErrUnresolved, "empty location name")
	}

	var id int64
	err := tx.QueryRowContext(ctx, `
	INSERT INTO locations (location) VALUES ($1)
	ON CONFLICT (location) DO NOTHING
	RETURNING id
	`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrapf(err, "failed to create location %q", name)
	}

	if err := tx.QueryRowContext(ctx, `SELECT id FROM locations WHERE location = $1`, name).Scan(&id); err != nil {
		return 0, errors.Wrapf(err, "failed to look up location %q", name)
	}
	return id, nil
}

// Job resolves a job by its external job_id, inserting the full record on
// first sighting. Existing jobs are never updated.
func (r *Resolver) Job(ctx context.Context, tx *sqlx.Tx, rec exports.TimeEntryRow) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
	INSERT INTO jobs (job_id, job_guid, job_code, job_title)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (job_id) DO NOTHING
	RETURNING id
	`, rec.JobID, rec.JobGUID, rec.JobCode, rec.JobTitle).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrapf(err, "failed to create job %d", rec.JobID)
	}

	if err := tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE job_id = $1`, rec.JobID).Scan(&id); err != nil {
		return 0, errors.Wrapf(err, "failed to look up job %d", rec.JobID)
	}
	return id, nil
}

// Employee resolves an employee from an id-bearing source. Lookup precedence
// is employee_id, then guid, then normalized name; the first hit wins. A
// found row is refreshed with the latest identity fields (last writer wins),
// which is how a name-only server row gets adopted by the time-entry source.
func (r *Resolver) Employee(ctx context.Context, tx *sqlx.Tx, rec exports.TimeEntryRow) (int64, error) {
	name, usable := namefmt.Format(rec.EmployeeName)

	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM employees WHERE employee_id = $1`, rec.EmployeeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `SELECT id FROM employees WHERE employee_guid = $1`, rec.EmployeeGUID).Scan(&id)
	}
	if errors.Is(err, sql.ErrNoRows) && usable {
		err = tx.QueryRowContext(ctx, `SELECT id FROM employees WHERE employee_name = $1`, name).Scan(&id)
	}

	switch {
	case err == nil:
		if usable {
			_, err = tx.ExecContext(ctx, `
			UPDATE employees
			SET employee_id = $1, employee_guid = $2, employee_external_id = $3, employee_name = $4
			WHERE id = $5
			`, rec.EmployeeID, rec.EmployeeGUID, rec.EmployeeExternalID, name, id)
		} else {
			// Keep the stored name when the source one is unusable.
			_, err = tx.ExecContext(ctx, `
			UPDATE employees
			SET employee_id = $1, employee_guid = $2, employee_external_id = $3
			WHERE id = $4
			`, rec.EmployeeID, rec.EmployeeGUID, rec.EmployeeExternalID, id)
		}
		if err != nil {
			return 0, errors.Wrapf(err, "failed to refresh employee %d", rec.EmployeeID)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		if !usable {
			return 0, errors.Wrapf(ErrUnresolved, "unusable employee name %q", rec.EmployeeName)
		}
		err = tx.QueryRowContext(ctx, `
		INSERT INTO employees (employee_id, employee_guid, employee_external_id, employee_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
		`, rec.EmployeeID, rec.EmployeeGUID, rec.EmployeeExternalID, name).Scan(&id)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to create employee %d", rec.EmployeeID)
		}
		return id, nil
	default:
		return 0, errors.Wrapf(err, "failed to look up employee %d", rec.EmployeeID)
	}
}

// Server resolves a server from an order row, which carries only a display
// name. The row is created with a NULL employee_id and a generated guid;
// a later id-bearing source that matches by name adopts it via Employee.
func (r *Resolver) Server(ctx context.Context, tx *sqlx.Tx, rawName string) (int64, error) {
	name, usable := namefmt.Format(rawName)
	if !usable {
		return 0, errors.Wrap(ErrUnresolved, "order row has no usable server name")
	}

	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM employees WHERE employee_name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrapf(err, "failed to look up server %q", name)
	}

	err = tx.QueryRowContext(ctx, `
	INSERT INTO employees (employee_guid, employee_name)
	VALUES ($1, $2)
	RETURNING id
	`, uuid.New(), name).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create server %q", name)
	}
	return id, nil
}
