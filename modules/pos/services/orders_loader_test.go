package services

import (
	"context"
	"io"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

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

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func requireExpectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func sampleOrder() exports.OrderRow {
	return exports.OrderRow{
		OrderID:     100,
		OrderNumber: "55",
		Location:    "Main Street",
		Server:      "Jane Doe",
		Checks:      "5,6",
		Opened:      time.Date(2024, 4, 10, 11, 5, 0, 0, time.UTC),
		GuestCount:  2,
	}
}

func sampleChecks() []exports.CheckRow {
	return []exports.CheckRow{
		{CheckID: 900, CheckNumber: 5},
		{CheckID: 901, CheckNumber: 6},
	}
}

func TestOrdersLoader_InsertsOrderWithChecks(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO locations`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_name`).
		WithArgs("Doe, Jane").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO employees`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`INSERT INTO checks`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO checks`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := NewOrdersLoader(db, quietLogger()).Load(context.Background(), []exports.OrderRow{sampleOrder()}, sampleChecks())

	if res.Orders != (Stats{Inserted: 1}) {
		t.Fatalf("orders stats = %+v, want 1 inserted", res.Orders)
	}
	if res.Checks != (Stats{Inserted: 2}) {
		t.Fatalf("checks stats = %+v, want 2 inserted", res.Checks)
	}
	requireExpectationsMet(t, mock)
}

func TestOrdersLoader_SkipsAlreadyLoadedUnit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO locations`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM locations`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_name`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM orders`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`INSERT INTO checks`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO checks`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res := NewOrdersLoader(db, quietLogger()).Load(context.Background(), []exports.OrderRow{sampleOrder()}, sampleChecks())

	if res.Orders != (Stats{Skipped: 1}) {
		t.Fatalf("orders stats = %+v, want 1 skipped", res.Orders)
	}
	if res.Checks != (Stats{Skipped: 2}) {
		t.Fatalf("checks stats = %+v, want 2 skipped", res.Checks)
	}
	requireExpectationsMet(t, mock)
}

func TestOrdersLoader_UnresolvedServerRollsBackUnit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO locations`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectRollback()

	order := sampleOrder()
	order.Server = ""

	res := NewOrdersLoader(db, quietLogger()).Load(context.Background(), []exports.OrderRow{order}, sampleChecks())

	if res.Orders != (Stats{Errors: 1}) {
		t.Fatalf("orders stats = %+v, want 1 error", res.Orders)
	}
	if res.Checks != (Stats{}) {
		t.Fatalf("checks stats = %+v, want all zero", res.Checks)
	}
	requireExpectationsMet(t, mock)
}

func TestOrdersLoader_UnmatchedCheckNumberIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO locations`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`SELECT id FROM employees WHERE employee_name`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`INSERT INTO checks`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order := sampleOrder()
	order.Checks = "5,9999"

	res := NewOrdersLoader(db, quietLogger()).Load(context.Background(), []exports.OrderRow{order}, sampleChecks())

	if res.Orders != (Stats{Inserted: 1}) {
		t.Fatalf("orders stats = %+v, want 1 inserted", res.Orders)
	}
	if res.Checks != (Stats{Inserted: 1}) {
		t.Fatalf("checks stats = %+v, want 1 inserted", res.Checks)
	}
	requireExpectationsMet(t, mock)
}
