package database

import (
	"path/filepath"
	"testing"
)

func TestOpenMigratesAndEnforcesForeignKeys(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	v, err := Version(db)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 2 {
		t.Errorf("version = %d, want 2", v)
	}

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}

	_, err = db.Exec(`INSERT INTO chore_assignments (chore_id, user_profile_id) VALUES (42, 42)`)
	if err == nil {
		t.Error("expected foreign key violation for dangling assignment")
	}

	var admin string
	if err := db.QueryRow(`SELECT name FROM roles WHERE id = 1`).Scan(&admin); err != nil {
		t.Fatalf("admin role: %v", err)
	}
	if admin != "Admin" {
		t.Errorf("role 1 = %q, want Admin", admin)
	}
}

func TestOpenFileIsReentrant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		var mode string
		if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
			t.Fatalf("journal mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("journal_mode = %q, want wal", mode)
		}
		db.Close()
	}
}

func TestDifficultyCheckConstraint(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, tc := range []struct {
		difficulty, recurrence int
		ok                     bool
	}{
		{1, 1, true},
		{5, 30, true},
		{0, 1, false},
		{6, 1, false},
		{3, 0, false},
	} {
		_, err := db.Exec(`INSERT INTO chores (name, difficulty, recurrence_days) VALUES ('x', ?, ?)`, tc.difficulty, tc.recurrence)
		if (err == nil) != tc.ok {
			t.Errorf("difficulty=%d recurrence=%d: err = %v, want ok=%v", tc.difficulty, tc.recurrence, err, tc.ok)
		}
	}
}
