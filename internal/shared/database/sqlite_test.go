package database

import (
	"testing"
	"testing/fstest"
)

func TestApplySQLiteMigrations(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer db.Close()

	migrations := fstest.MapFS{
		"002_add_notes.sql": {Data: []byte("-- +migrate Up\nALTER TABLE things ADD COLUMN notes TEXT;\n-- +migrate Down\nSELECT 1;")},
		"001_things.sql":    {Data: []byte("CREATE TABLE things (id TEXT PRIMARY KEY);")},
		"README.md":         {Data: []byte("not a migration")},
	}

	for i := 0; i < 2; i++ {
		if err := ApplySQLiteMigrations(db, migrations); err != nil {
			t.Fatalf("run %d: ApplySQLiteMigrations() error = %v", i, err)
		}
	}

	if _, err := db.Exec(`INSERT INTO things (id, notes) VALUES ('a', 'b')`); err != nil {
		t.Errorf("migrated schema rejected insert: %v", err)
	}

	var applied int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
}

func TestUpSection(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{content: "SELECT 1;", want: "SELECT 1;"},
		{content: "-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;", want: "\nSELECT 1;\n"},
		{content: "-- +migrate Up\nSELECT 1;", want: "\nSELECT 1;"},
	}
	for _, tt := range tests {
		if got := upSection(tt.content); got != tt.want {
			t.Errorf("upSection(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Error("OpenSQLite(blank) succeeded")
	}
}
