package repo

import (
	"path/filepath"
	"testing"

	"github.com/tbourn/go-shortlink-backend/internal/domain"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if !db.Migrator().HasTable(&domain.Link{}) {
		t.Fatal("links table missing after migrate")
	}
}

func TestOpenSQLiteMissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "links.db")); err == nil {
		t.Fatal("want error for missing parent directory")
	}
}
