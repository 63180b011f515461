package persistence

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/restomart/toast-etl/modules/pos/exports"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func beginTx(t *testing.T, db *sqlx.DB, mock sqlmock.Sqlmock) *sqlx.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.BeginTxx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTxx: %v", err)
	}
	return tx
}

func requireExpectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func sampleTimeEntry() exports.TimeEntryRow {
	return exports.TimeEntryRow{
		Location:           "Main Street",
		JobID:              200,
		JobGUID:            uuid.New(),
		JobCode:            "SRV",
		JobTitle:           "Server",
		EmployeeID:         300,
		EmployeeGUID:       uuid.New(),
		EmployeeExternalID: "EXT-1",
		EmployeeName:       "Jane Doe",
	}
}

func TestResolverLocation_InsertsOnFirstSighting(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(`INSERT INTO locations`).
		WithArgs("Main Street").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := NewResolver().Location(context.Background(), tx, "Main Street")
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if id != 1 {
		t.Fatalf("id = %d, want 1", id)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverLocation_FallsBackToSelectOnConflict(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(`INSERT INTO locations`).
		WithArgs("Main Street").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM locations`).
		WithArgs("Main Street").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := NewResolver().Location(context.Background(), tx, "Main Street")
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverLocation_EmptyNameIsUnresolved(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	_, err := NewResolver().Location(context.Background(), tx, "   ")
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("err = %v, want ErrUnresolved", err)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverJob_FallsBackToSelectOnConflict(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)
	rec := sampleTimeEntry()

	mock.ExpectQuery(`INSERT INTO jobs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM jobs`).
		WithArgs(rec.JobID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	id, err := NewResolver().Job(context.Background(), tx, rec)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if id != 2 {
		t.Fatalf("id = %d, want 2", id)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverEmployee_RefreshesFoundRow(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)
	rec := sampleTimeEntry()

	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_id`).
		WithArgs(rec.EmployeeID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(`UPDATE employees`).
		WithArgs(rec.EmployeeID, rec.EmployeeGUID, rec.EmployeeExternalID, "Doe, Jane", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := NewResolver().Employee(context.Background(), tx, rec)
	if err != nil {
		t.Fatalf("Employee: %v", err)
	}
	if id != 3 {
		t.Fatalf("id = %d, want 3", id)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverEmployee_AdoptsNameOnlyRow(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)
	rec := sampleTimeEntry()

	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_id`).
		WithArgs(rec.EmployeeID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_guid`).
		WithArgs(rec.EmployeeGUID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_name`).
		WithArgs("Doe, Jane").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectExec(`UPDATE employees`).
		WithArgs(rec.EmployeeID, rec.EmployeeGUID, rec.EmployeeExternalID, "Doe, Jane", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := NewResolver().Employee(context.Background(), tx, rec)
	if err != nil {
		t.Fatalf("Employee: %v", err)
	}
	if id != 9 {
		t.Fatalf("id = %d, want 9", id)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverEmployee_CreatesWhenUnknown(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)
	rec := sampleTimeEntry()

	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_guid`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_name`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs(rec.EmployeeID, rec.EmployeeGUID, rec.EmployeeExternalID, "Doe, Jane").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

	id, err := NewResolver().Employee(context.Background(), tx, rec)
	if err != nil {
		t.Fatalf("Employee: %v", err)
	}
	if id != 4 {
		t.Fatalf("id = %d, want 4", id)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverEmployee_UnusableNameIsUnresolved(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)
	rec := sampleTimeEntry()
	rec.EmployeeName = "   "

	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_guid`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewResolver().Employee(context.Background(), tx, rec)
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("err = %v, want ErrUnresolved", err)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverServer_FindsExistingByNormalizedName(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_name`).
		WithArgs("Doe, Jane").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := NewResolver().Server(context.Background(), tx, "Jane Doe")
	if err != nil {
		t.Fatalf("Server: %v", err)
	}
	if id != 5 {
		t.Fatalf("id = %d, want 5", id)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverServer_CreatesNameOnlyRow(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_name`).
		WithArgs("A, Bartender").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO employees`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))

	id, err := NewResolver().Server(context.Background(), tx, "Bartender A")
	if err != nil {
		t.Fatalf("Server: %v", err)
	}
	if id != 6 {
		t.Fatalf("id = %d, want 6", id)
	}
	requireExpectationsMet(t, mock)
}

func TestResolverServer_EmptyNameIsUnresolved(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)

	_, err := NewResolver().Server(context.Background(), tx, "")
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("err = %v, want ErrUnresolved", err)
	}
	requireExpectationsMet(t, mock)
}
