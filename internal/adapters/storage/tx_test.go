package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO document").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO document").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	tr := NewTransactor(db)
	err = tr.InTx(context.Background(), func(ctx context.Context) error {
		if _, err := Conn(ctx, db).ExecContext(ctx, "INSERT INTO document VALUES (1)"); err != nil {
			return err
		}
		_, err := Conn(ctx, db).ExecContext(ctx, "INSERT INTO document VALUES (2)")
		return err
	})
	if err == nil || err.Error() != "disk full" {
		t.Errorf("InTx() error = %v, want disk full", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransactor_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE document").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tr := NewTransactor(db)
	err = tr.InTx(context.Background(), func(ctx context.Context) error {
		_, err := Conn(ctx, db).ExecContext(ctx, "UPDATE document SET data = '{}'")
		return err
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	tr := NewTransactor(db)
	err = tr.InTx(context.Background(), func(ctx context.Context) error {
		outer, _ := TxFromContext(ctx)
		return tr.InTx(ctx, func(inner context.Context) error {
			got, ok := TxFromContext(inner)
			if !ok || got != outer {
				t.Error("nested InTx should reuse the outer transaction")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConn_FallsBackToDB(t *testing.T) {
	db := openTestDB(t)
	if Conn(context.Background(), db) != Execer(db) {
		t.Error("Conn without a transaction should return the pool")
	}
}
