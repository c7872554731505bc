// handler_test.go provides the shared test environment for handler
// integration tests. Tests are skipped if PostgreSQL is not available;
// the cache is left nil so Valkey is never required.
package handlers

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"clinicms/internal/database"
	"clinicms/internal/store"
)

type testEnv struct {
	DB     *sql.DB
	Admin  *Admin
	Public *Public
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "clinicms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "clinicms")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })

	departments := store.NewDepartmentStore(db)
	doctors := store.NewDoctorStore(db)
	galleries := store.NewGalleryStore(db)

	return &testEnv{
		DB:     db,
		Admin:  NewAdmin(departments, doctors, galleries, nil),
		Public: NewPublic(departments, doctors, galleries, nil),
	}
}

func cleanDepartments(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM departments WHERE slug = $1", slug)
	}
}
