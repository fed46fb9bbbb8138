package repo

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "app.db")); err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}

func TestOpenSQLite_CreatesAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	// Foreign keys must be enforced for cascade semantics.
	var fk int
	if err := db.Raw("PRAGMA foreign_keys;").Scan(&fk).Error; err != nil {
		t.Fatalf("read pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys pragma = %d, want 1", fk)
	}
}
