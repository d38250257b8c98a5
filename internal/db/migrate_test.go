package db

import (
	"io/fs"
	"path/filepath"
	"testing"
)

func openUnmigratedDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func tableExists(t *testing.T, database *DB, name string) bool {
	t.Helper()

	var count int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return count > 0
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob embedded migrations: %v", err)
	}
	// Every up migration needs a matching down migration.
	ups, _ := fs.Glob(migrationsFS, "migrations/*.up.sql")
	downs, _ := fs.Glob(migrationsFS, "migrations/*.down.sql")
	if len(ups) == 0 {
		t.Fatal("no up migrations embedded")
	}
	if len(ups) != len(downs) {
		t.Errorf("embedded %d up migrations but %d down migrations", len(ups), len(downs))
	}
	if len(entries) != len(ups)+len(downs) {
		t.Errorf("unexpected files in embedded migrations: %v", entries)
	}
}

func TestMigrateUp(t *testing.T) {
	database := openUnmigratedDB(t)

	if err := database.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}

	latest, err := GetLatestMigrationVersion()
	if err != nil {
		t.Fatalf("GetLatestMigrationVersion() error = %v", err)
	}
	version, dirty, err := database.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion() error = %v", err)
	}
	if version != latest || dirty {
		t.Errorf("after up: version = %d (dirty %v), want %d (clean)", version, dirty, latest)
	}

	for _, table := range []string{"trajectories", "trajectory_samples"} {
		if !tableExists(t, database, table) {
			t.Errorf("table %s missing after MigrateUp", table)
		}
	}
}

func TestMigrateUpIdempotent(t *testing.T) {
	database := openUnmigratedDB(t)

	if err := database.MigrateUp(); err != nil {
		t.Fatalf("first MigrateUp() error = %v", err)
	}
	if err := database.MigrateUp(); err != nil {
		t.Fatalf("second MigrateUp() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	database := openUnmigratedDB(t)

	if err := database.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if err := database.MigrateDown(); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	version, dirty, err := database.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion() error = %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("after down: version = %d (dirty %v), want 1 (clean)", version, dirty)
	}
	if tableExists(t, database, "trajectory_samples") {
		t.Error("trajectory_samples should be dropped by the down migration")
	}
	if !tableExists(t, database, "trajectories") {
		t.Error("trajectories should survive rolling back one migration")
	}
}

func TestMigrateTo(t *testing.T) {
	database := openUnmigratedDB(t)

	if err := database.MigrateTo(1); err != nil {
		t.Fatalf("MigrateTo(1) error = %v", err)
	}
	version, _, err := database.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion() error = %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
	if tableExists(t, database, "trajectory_samples") {
		t.Error("trajectory_samples should not exist at version 1")
	}

	if err := database.MigrateTo(2); err != nil {
		t.Fatalf("MigrateTo(2) error = %v", err)
	}
	if !tableExists(t, database, "trajectory_samples") {
		t.Error("trajectory_samples should exist at version 2")
	}
}

func TestMigrateVersionFresh(t *testing.T) {
	database := openUnmigratedDB(t)

	version, dirty, err := database.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion() error = %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("fresh database: version = %d (dirty %v), want 0 (clean)", version, dirty)
	}
}

func TestMigrateForce(t *testing.T) {
	database := openUnmigratedDB(t)

	if err := database.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if err := database.MigrateForce(1); err != nil {
		t.Fatalf("MigrateForce(1) error = %v", err)
	}

	version, dirty, err := database.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion() error = %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("after force: version = %d (dirty %v), want 1 (clean)", version, dirty)
	}
}

func TestCheckSchema(t *testing.T) {
	database := openUnmigratedDB(t)

	if err := database.CheckSchema(); err == nil {
		t.Error("CheckSchema() expected error for unmigrated database")
	}

	if err := database.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	if err := database.CheckSchema(); err != nil {
		t.Errorf("CheckSchema() error = %v, want nil at latest version", err)
	}

	if err := database.MigrateDown(); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}
	if err := database.CheckSchema(); err == nil {
		t.Error("CheckSchema() expected error after rolling back")
	}
}
