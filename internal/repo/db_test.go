package repo

import (
	"path/filepath"
	"testing"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
)

func TestOpenSQLite_CreatesAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	m := db.Migrator()
	for _, table := range []string{
		"auth_group",
		"s3app_groupsettings",
		"s3app_user",
		"s3app_user_groups",
		"s3app_userrequest",
		"s3app_userrequest_departments",
		"s3app_userrequest_processed_departments",
	} {
		if !m.HasTable(table) {
			t.Fatalf("missing table %q", table)
		}
	}
	if !m.HasIndex(&domain.Request{}, "ux_request_active") {
		t.Fatal("missing active-key unique index")
	}
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "bot.db")); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
