package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store/storetest"
)

// makePGStore connects to MEALPLAN_TEST_POSTGRES_DSN when set; otherwise it
// starts a throwaway postgres container if MEALPLAN_TEST_USE_DOCKER=1, and
// skips when neither is available.
func makePGStore(t *testing.T) store.Store {
	t.Helper()

	dsn := os.Getenv("MEALPLAN_TEST_POSTGRES_DSN")
	if dsn == "" {
		if os.Getenv("MEALPLAN_TEST_USE_DOCKER") != "1" {
			t.Skip("MEALPLAN_TEST_POSTGRES_DSN not set and docker not requested; skipping postgres store integration test")
		}
		dsn = startPostgresContainer(t)
	}

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := RunMigrations(db); err != nil {
		t.Fatalf("postgres migrate: %v", err)
	}
	return NewWithDB(db)
}

func startPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "mealplan",
			"POSTGRES_PASSWORD": "mealplan",
			"POSTGRES_DB":       "mealplan_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("postgres://mealplan:mealplan@%s:%s/mealplan_test?sslmode=disable", host, port.Port())
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
