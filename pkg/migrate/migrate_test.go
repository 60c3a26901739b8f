package migrate_test

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/pkg/migrate"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestUpAppliesEmbeddedMigrationsOnSQLite(t *testing.T) {
	sqlDB := openSQLite(t)
	ctx := context.Background()

	results, err := migrate.Up(ctx, sqlDB, "sqlite")
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	entries, err := fs.Glob(migrate.Migrations(), "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(results) != len(entries) {
		t.Fatalf("expected %d applied migrations, got %d", len(entries), len(results))
	}

	for _, table := range []string{"users", "user_profiles", "farms", "donation_centers", "shifts", "shift_signups", "donations"} {
		var name string
		row := sqlDB.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		if err := row.Scan(&name); err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}

	again, err := migrate.Up(ctx, sqlDB, "sqlite")
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no migrations on second run, got %d", len(again))
	}
}

func TestProfilesAreUniquePerRole(t *testing.T) {
	sqlDB := openSQLite(t)
	ctx := context.Background()
	if _, err := migrate.Up(ctx, sqlDB, "sqlite"); err != nil {
		t.Fatalf("Up: %v", err)
	}

	mustExec(t, sqlDB, `INSERT INTO users (id, email, password_hash) VALUES ('u1', 'a@b.c', 'x')`)
	mustExec(t, sqlDB, `INSERT INTO user_profiles (id, user_id, role, volunteer_name) VALUES ('p1', 'u1', 'volunteer', 'Sam')`)

	_, err := sqlDB.ExecContext(ctx, `INSERT INTO user_profiles (id, user_id, role, volunteer_name) VALUES ('p2', 'u1', 'volunteer', 'Sam again')`)
	if err == nil || !strings.Contains(err.Error(), "UNIQUE") {
		t.Fatalf("expected unique violation, got %v", err)
	}

	_, err = sqlDB.ExecContext(ctx, `INSERT INTO user_profiles (id, user_id, role) VALUES ('p3', 'u1', 'farmer')`)
	if err == nil {
		t.Fatal("expected farmer profile without farm to be rejected")
	}
}

func TestDialect(t *testing.T) {
	if migrate.Dialect("sqlite") != goose.DialectSQLite3 {
		t.Fatal("expected sqlite3 dialect")
	}
	if migrate.Dialect("postgres") != goose.DialectPostgres {
		t.Fatal("expected postgres dialect")
	}
}

func mustExec(t *testing.T, db *sql.DB, query string) {
	t.Helper()
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
