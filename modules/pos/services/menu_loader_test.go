package services

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/restomart/toast-etl/modules/pos/exports"
)

func TestMenuLoader_CountsInsertedAndSkipped(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO menus`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO menus`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	menus := []exports.Menu{
		{GUID: uuid.New(), Name: "Lunch"},
		{GUID: uuid.New(), Name: "Dinner"},
	}
	stats := NewMenuLoader(db, quietLogger()).Load(context.Background(), menus)

	if stats != (Stats{Inserted: 1, Skipped: 1}) {
		t.Fatalf("stats = %+v, want 1 inserted and 1 skipped", stats)
	}
	requireExpectationsMet(t, mock)
}

func TestMenuLoader_FailedRowDoesNotAbortTheRest(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO menus`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO menus`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	menus := []exports.Menu{
		{GUID: uuid.New(), Name: "Lunch"},
		{GUID: uuid.New(), Name: "Dinner"},
	}
	stats := NewMenuLoader(db, quietLogger()).Load(context.Background(), menus)

	if stats != (Stats{Inserted: 1, Errors: 1}) {
		t.Fatalf("stats = %+v, want 1 inserted and 1 error", stats)
	}
	requireExpectationsMet(t, mock)
}
