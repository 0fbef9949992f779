// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkpress/internal/database"
	"inkpress/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDSN returns the PostgreSQL connection string for testing.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
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
	return db
}

// testCategory inserts a category for post fixtures and removes it when
// the test finishes.
func testCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()

	slug := "test-cat-" + uuid.New().String()[:8]
	c, err := NewCategoryStore(db).Create(&models.Category{
		Name: "Test " + slug, Slug: slug, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// testUser inserts a user fixture and removes it when the test finishes.
func testUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	email := "user-" + uuid.New().String()[:8] + "@test.local"
	u, err := NewUserStore(db).Create(email, "password123", "Test User", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testPost inserts a post fixture (no images) in the given category.
func testPost(t *testing.T, db *sql.DB, categoryID uuid.UUID, title string) *models.Post {
	t.Helper()

	p := &models.Post{
		Title:      title,
		Slug:       "test-post-" + uuid.New().String()[:8],
		Content:    "Body of " + title,
		CategoryID: categoryID,
	}
	if err := NewPostStore(db).CreateWithImages(p); err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
	return p
}
