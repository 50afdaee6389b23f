package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEnsureSchemaSkipsExistingTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	present := sqlmock.NewRows([]string{"table_name"}).AddRow("users")
	missing := func() *sqlmock.Rows { return sqlmock.NewRows([]string{"table_name"}) }

	// users already exists and must not be re-created.
	mock.ExpectQuery("information_schema").WithArgs("users").WillReturnRows(present)
	mock.ExpectQuery("information_schema").WithArgs("bookings").WillReturnRows(missing())
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS bookings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("information_schema").WithArgs("booking_seats").WillReturnRows(missing())
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS booking_seats").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("information_schema").WithArgs("booking_passengers").WillReturnRows(missing())
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS booking_passengers").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHasTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema").WithArgs("bookings").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("bookings"))
	mock.ExpectQuery("information_schema").WithArgs("ghosts").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	if !HasTable(context.Background(), db, "bookings") {
		t.Fatalf("expected bookings to exist")
	}
	if HasTable(context.Background(), db, "ghosts") {
		t.Fatalf("missing table reported as present")
	}
}
