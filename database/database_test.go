package database

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eplus-sqlresult/fixtures"
	"eplus-sqlresult/models"
)

func TestValidateResultFile(t *testing.T) {
	if err := ValidateResultFile(fixtures.DailyJanuary(t)); err != nil {
		t.Fatalf("expected a valid result file, got %v", err)
	}

	if err := ValidateResultFile(filepath.Join(t.TempDir(), "missing.sql")); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected a not found error, got %v", err)
	}
	if err := ValidateResultFile(t.TempDir()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected a not found error for a folder, got %v", err)
	}

	wrongExtension := filepath.Join(t.TempDir(), "eplusout.csv")
	if err := os.WriteFile(wrongExtension, []byte("SQLite format 3\x00"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateResultFile(wrongExtension); models.GetKind(err) != models.KindFormat {
		t.Fatalf("expected a format error for a csv file, got %v", err)
	}

	notSQLite := filepath.Join(t.TempDir(), "eplusout.sql")
	if err := os.WriteFile(notSQLite, []byte("Program Version,EnergyPlus"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateResultFile(notSQLite); models.GetKind(err) != models.KindFormat {
		t.Fatalf("expected a format error for a text file, got %v", err)
	}
}

func TestWithDB(t *testing.T) {
	path := fixtures.DailyJanuary(t)

	var count int
	err := WithDB(path, func(db *sql.DB) error {
		return db.QueryRow(`SELECT COUNT(*) FROM ReportData`).Scan(&count)
	})
	if err != nil {
		t.Fatalf("WithDB: %v", err)
	}
	if count != 31 {
		t.Fatalf("expected 31 rows, got %d", count)
	}

	sentinel := errors.New("stop")
	if err := WithDB(path, func(db *sql.DB) error { return sentinel }); err != sentinel {
		t.Fatalf("expected the callback error, got %v", err)
	}
}
