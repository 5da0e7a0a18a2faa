package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	_, err = db.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test")
		return err
	})

	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&count)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	wantErr := errors.New("boom")
	err := WithTx(db, func(tx *sql.Tx) error {
		if _, execErr := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test"); execErr != nil {
			return execErr
		}
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("WithTx error = %v, want %v", err, wantErr)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 after rollback", count)
	}
}

func TestNullValues(t *testing.T) {
	if got := NullStringValue(sql.NullString{String: "x", Valid: true}); got != "x" {
		t.Errorf("NullStringValue = %q, want x", got)
	}
	if got := NullStringValue(sql.NullString{String: "x", Valid: false}); got != "" {
		t.Errorf("NullStringValue = %q, want empty", got)
	}
	if got := NullInt64Value(sql.NullInt64{Int64: 7, Valid: true}); got != 7 {
		t.Errorf("NullInt64Value = %d, want 7", got)
	}
	if got := NullFloat64Value(sql.NullFloat64{Float64: 1.5, Valid: true}); got != 1.5 {
		t.Errorf("NullFloat64Value = %v, want 1.5", got)
	}
	if got := NullFloat64Value(sql.NullFloat64{Float64: 1.5, Valid: false}); got != 0 {
		t.Errorf("NullFloat64Value = %v, want 0", got)
	}
}
