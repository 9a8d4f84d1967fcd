package testhelper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	postgres "github.com/heartmarshall/jmdict-compounds/internal/adapter/postgres"
	"github.com/heartmarshall/jmdict-compounds/internal/config"
)

const (
	dbUser     = "compounds"
	dbPassword = "compounds"
	dbName     = "compounds"
)

var (
	once      sync.Once
	sharedCfg config.DatabaseConfig
	initErr   error
)

// SetupTestDB returns a migrated pool on a PostgreSQL container shared by
// the whole test binary. The pool is closed on test cleanup.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	once.Do(func() {
		sharedCfg, initErr = startPostgres()
	})
	if initErr != nil {
		t.Fatalf("testhelper: start postgres: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, sharedCfg)
	if err != nil {
		t.Fatalf("testhelper: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func startPostgres() (config.DatabaseConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     dbUser,
				"POSTGRES_PASSWORD": dbPassword,
				"POSTGRES_DB":       dbName,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("start container: %w", err)
	}

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("container endpoint: %w", err)
	}

	cfg := config.DatabaseConfig{
		DSN:             fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", dbUser, dbPassword, endpoint, dbName),
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		BatchSize:       2,
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return config.DatabaseConfig{}, err
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		return config.DatabaseConfig{}, err
	}

	return cfg, nil
}
