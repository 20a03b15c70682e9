package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/database"
)

// PostgresImage is the PostgreSQL image used for integration tests. The
// unaccent extension ships with the contrib modules of the official image.
const PostgresImage = "postgres:16-alpine"

// TestDB holds a shared test database container with migrations applied.
type TestDB struct {
	Container testcontainers.Container
	DB        *sql.DB
	ConnStr   string
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a shared PostgreSQL container for integration tests.
// The container is created once and reused across all tests in the run.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "biblioteca",
			"POSTGRES_USER":     "bagbot",
			"POSTGRES_PASSWORD": "test_password",
		},
		// The server logs readiness twice: once for the init run, once for real.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://bagbot:test_password@%s:%s/biblioteca?sslmode=disable",
		host, port.Port())

	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = database.Open(ctx, &database.Config{URL: connStr, MaxConnections: 5})
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := database.RunMigrations(ctx, db, zap.NewNop()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container: container,
		DB:        db,
		ConnStr:   connStr,
	}, nil
}

// SeedBooks inserts (titulo, autor, anio) rows into recursos_libros and
// removes them when the test finishes.
func SeedBooks(t *testing.T, db *sql.DB, books [][3]any) {
	t.Helper()

	ctx := context.Background()
	for _, b := range books {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO recursos_libros (titulo, autor, anio) VALUES ($1, $2, $3)`,
			b[0], b[1], b[2]); err != nil {
			t.Fatalf("failed to seed book %v: %v", b[0], err)
		}
	}

	t.Cleanup(func() {
		if _, err := db.ExecContext(context.Background(), `TRUNCATE recursos_libros RESTART IDENTITY`); err != nil {
			t.Errorf("failed to clean recursos_libros: %v", err)
		}
	})
}
